package shell

import (
	"fmt"
	"path/filepath"

	"github.com/revenium/gemini-meter/internal/config"
)

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// Dialect returns the configuration file syntax the shell sources.
// Unknown shells get the POSIX dialect.
func (s ShellType) Dialect() config.Dialect {
	if s == ShellFish {
		return config.DialectFish
	}
	return config.DialectPOSIX
}

// Config holds configuration for the shell manager
type Config struct {
	// ConfigDir holds the revenium.env / revenium.fish pair (default: ~/.gemini)
	ConfigDir string
}

// ConfigPath returns the configuration file the given shell should source.
func (c Config) ConfigPath(shell ShellType) string {
	d := shell.Dialect()
	return filepath.Join(c.ConfigDir, config.ConfigBaseName+d.Extension())
}

// UpdateResult describes the outcome of a profile update.
type UpdateResult struct {
	// Success is false when the shell could not be handled; Message then
	// carries manual instructions instead.
	Success bool
	// Shell is the shell the update targeted
	Shell ShellType
	// ProfilePath is the profile that was written
	ProfilePath string
	// BackupPath is the backup taken before writing, if the profile existed
	BackupPath string
	// Replaced indicates an existing managed block was swapped out
	Replaced bool
	// Message is a user-facing summary
	Message string
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	// Shell is the detected shell type
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the shell binary path or process name, when known
	ShellPath string
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", e.Shell)
}

// RCFileError represents an error with shell rc file operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
