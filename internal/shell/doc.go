// Package shell wires the metering configuration into the user's shell.
//
// Gemini CLI only sees the telemetry variables if the shell that launches it
// has sourced ~/.gemini/revenium.env (bash, zsh) or ~/.gemini/revenium.fish
// (fish). This package:
//   - detects the user's shell
//   - locates its profile
//   - keeps a single marker-delimited block in that profile that sources the
//     right file
//
// # Shell Detection
//
// Shell detection tries multiple methods:
//  1. $SHELL environment variable (most reliable)
//  2. Parent process name, via gopsutil
//  3. Existing rc files, in the order zsh, fish, bash
//
// # Profiles
//
//   - bash: ~/.bashrc, or ~/.bash_profile when there is no ~/.bashrc
//   - zsh: ~/.zshrc
//   - fish: ~/.config/fish/config.fish
//
// # Managed Block
//
//	# >>> revenium-gemini-cli-metering >>>
//	# Source Revenium Gemini CLI metering config
//	if [ -f "/home/me/.gemini/revenium.env" ]; then
//	    source "/home/me/.gemini/revenium.env"
//	fi
//	# <<< revenium-gemini-cli-metering <<<
//
// Every update removes the old block and appends a fresh one, separated from
// the rest of the profile by one blank line, so repeated updates converge.
// The previous profile is copied to <profile>.revenium-backup-<timestamp>
// first, and only the five newest backups are kept. Writes are atomic
// (temp file + rename); symlinked profiles are resolved and their target is
// rewritten.
//
// # Example Usage
//
//	manager, err := shell.NewManager(shell.Config{})
//	if err != nil {
//	    return err
//	}
//	result, err := manager.DetectAndUpdate(ctx)
//	if err != nil {
//	    return err
//	}
//	if !result.Success {
//	    fmt.Println(result.Message)
//	}
package shell
