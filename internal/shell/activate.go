package shell

import (
	"fmt"

	"mvdan.cc/sh/v3/syntax"

	"github.com/revenium/gemini-meter/internal/config"
)

// SourceCommand returns the snippet that loads configPath into the shell.
// Fish gets test/end syntax; every other shell gets POSIX [ ]/fi.
func SourceCommand(shell ShellType, configPath string) string {
	path := quotePath(shell, configPath)
	if shell == ShellFish {
		return fmt.Sprintf("%s\nif test -f %s\n    source %s\nend", sourceComment, path, path)
	}
	return fmt.Sprintf("%s\nif [ -f %s ]; then\n    source %s\nfi", sourceComment, path, path)
}

// quotePath quotes configPath as a single literal word for the shell.
// A path mvdan/sh refuses to quote (one holding a null byte) is single-quoted.
func quotePath(shell ShellType, configPath string) string {
	if shell == ShellFish {
		return config.DialectFish.Quote(configPath)
	}
	quoted, err := syntax.Quote(configPath, syntax.LangBash)
	if err != nil {
		return config.DialectPOSIX.Quote(configPath)
	}
	return quoted
}

// ManagedBlock wraps the source command in the start/end markers.
// The block always ends with a newline.
func ManagedBlock(shell ShellType, configPath string) string {
	return MarkerStart + "\n" + SourceCommand(shell, configPath) + "\n" + MarkerEnd + "\n"
}
