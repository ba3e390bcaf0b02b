package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Detection methods reported in DetectionResult.Method.
const (
	MethodEnv           = "$SHELL environment variable"
	MethodParentProcess = "parent process"
	MethodRCFile        = "rc file present"
	MethodNone          = "detection failed"
)

// parentProcessName is replaced in tests.
var parentProcessName = func(ctx context.Context) (string, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getppid())) // #nosec G115 -- pids fit in int32
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

// DetectShell detects the user's shell using multiple methods
//
//  1. $SHELL
//  2. the name of the parent process
//  3. the first of ~/.zshrc, ~/.config/fish/config.fish, ~/.bashrc that exists
//
// Detection never fails; an undetectable shell is reported as ShellUnknown.
func DetectShell(ctx context.Context) *DetectionResult {
	if shell := os.Getenv(EnvShell); shell != "" {
		if shellType := parseShellFromPath(shell); shellType.IsValid() {
			return &DetectionResult{Shell: shellType, Method: MethodEnv, ShellPath: shell}
		}
	}

	if name, err := parentProcessName(ctx); err == nil {
		if shellType := parseShellFromPath(name); shellType.IsValid() {
			return &DetectionResult{Shell: shellType, Method: MethodParentProcess, ShellPath: name}
		}
	}

	if shellType, rcPath := detectFromRCFiles(); shellType.IsValid() {
		return &DetectionResult{Shell: shellType, Method: MethodRCFile, ShellPath: rcPath}
	}

	return &DetectionResult{Shell: ShellUnknown, Method: MethodNone}
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - -fish (login shell process name) -> fish
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(shellPath))
	baseName = strings.TrimPrefix(baseName, "-")

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}

func detectFromRCFiles() (ShellType, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return ShellUnknown, ""
	}

	candidates := []struct {
		shell ShellType
		path  string
	}{
		{ShellZsh, filepath.Join(home, ".zshrc")},
		{ShellFish, filepath.Join(home, ".config", "fish", "config.fish")},
		{ShellBash, filepath.Join(home, ".bashrc")},
	}
	for _, c := range candidates {
		if exists, _ := RCFileExists(c.path); exists {
			return c.shell, c.path
		}
	}

	return ShellUnknown, ""
}

// ParseShellType converts a user-supplied name such as "zsh" or "/bin/zsh".
func ParseShellType(name string) (ShellType, error) {
	if shellType := parseShellFromPath(name); shellType.IsValid() {
		return shellType, nil
	}
	return ShellUnknown, &UnsupportedShellError{Shell: name}
}

// ValidateShell validates that a shell type is supported
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}

// GetSupportedShells returns a list of supported shells
func GetSupportedShells() []ShellType {
	return []ShellType{ShellBash, ShellZsh, ShellFish}
}
