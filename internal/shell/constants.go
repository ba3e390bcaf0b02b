package shell

// Environment variable consulted first during detection.
const EnvShell = "SHELL"

// Managed block markers. Everything between them belongs to this tool.
const (
	// MarkerStart opens the managed block in a shell profile.
	MarkerStart = "# >>> revenium-gemini-cli-metering >>>"

	// MarkerEnd closes the managed block.
	MarkerEnd = "# <<< revenium-gemini-cli-metering <<<"

	// sourceComment heads the source snippet inside the block.
	sourceComment = "# Source Revenium Gemini CLI metering config"
)

// Backups
const (
	// BackupSuffix is appended to the profile name, followed by a timestamp.
	BackupSuffix = ".revenium-backup"

	// DefaultMaxBackups is how many backups are kept per profile.
	DefaultMaxBackups = 5

	backupTimeFormat = "20060102-150405"

	// profileFileMode applies to profiles this tool creates.
	profileFileMode = 0o644
)
