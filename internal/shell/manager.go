package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revenium/gemini-meter/internal/clock"
	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
)

// Manager wires configuration loading into shell profiles
type Manager struct {
	cfg        Config
	clock      clock.Clock
	logger     logging.Logger
	maxBackups int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for backup timestamps.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		m.clock = clock.OrReal(c)
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.OrNop(l)
	}
}

// WithMaxBackups sets how many backups are kept per profile.
func WithMaxBackups(n int) Option {
	return func(m *Manager) {
		m.maxBackups = n
	}
}

// NewManager creates a new shell manager. An empty ConfigDir means ~/.gemini.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, config.ConfigDirName)
	}

	m := &Manager{
		cfg:        cfg,
		clock:      clock.Real{},
		logger:     logging.Nop(),
		maxBackups: DefaultMaxBackups,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Update makes the shell's profile source the matching configuration file.
//
// An existing managed block is replaced, never edited in place, so the
// profile holds exactly one block afterwards. An existing profile is backed
// up first. An unsupported shell is not an error: the result reports
// Success=false with instructions.
func (m *Manager) Update(shell ShellType) (*UpdateResult, error) {
	if !shell.IsValid() {
		return &UpdateResult{
			Success: false,
			Shell:   shell,
			Message: "Could not detect shell type. Please manually add the source command to your shell profile.\n\n" +
				m.ManualInstructions(shell),
		}, nil
	}

	rcPath, err := GetRCFilePath(shell)
	if err != nil {
		return nil, fmt.Errorf("get RC file path: %w", err)
	}

	content, exists, err := ReadRCFile(rcPath)
	if err != nil {
		return nil, fmt.Errorf("read RC file: %w", err)
	}

	result := &UpdateResult{
		Success:     true,
		Shell:       shell,
		ProfilePath: rcPath,
		Replaced:    HasManagedBlock(content),
	}

	if exists {
		result.BackupPath, err = BackupRCFile(rcPath, m.clock.Now())
		if err != nil {
			return nil, fmt.Errorf("backup RC file: %w", err)
		}
		m.logger.Debug("backed up shell profile", "profile", rcPath, "backup", result.BackupPath)
	}

	block := ManagedBlock(shell, m.cfg.ConfigPath(shell))
	if err := WriteRCFile(rcPath, AppendManagedBlock(content, block)); err != nil {
		return nil, fmt.Errorf("write RC file: %w", err)
	}

	m.pruneBackups(rcPath)

	if result.Replaced {
		result.Message = fmt.Sprintf("Updated existing configuration in %s", rcPath)
	} else {
		result.Message = fmt.Sprintf("Added configuration to %s", rcPath)
	}
	return result, nil
}

// pruneBackups enforces the retention limit. Failures only cost disk space.
func (m *Manager) pruneBackups(rcPath string) {
	removed, err := PruneBackups(rcPath, m.maxBackups)
	if err != nil {
		m.logger.Warn("could not prune shell profile backups", "profile", rcPath, "error", err)
	}
	for _, path := range removed {
		m.logger.Debug("removed old shell profile backup", "backup", path)
	}
}

// DetectAndUpdate detects the user's shell and updates its profile
func (m *Manager) DetectAndUpdate(ctx context.Context) (*UpdateResult, error) {
	detection := DetectShell(ctx)
	m.logger.Debug("detected shell", "shell", detection.Shell, "method", detection.Method)
	return m.Update(detection.Shell)
}

// ManualInstructions returns the text a user pastes into their profile
// themselves. Unknown shells get the POSIX snippet.
func (m *Manager) ManualInstructions(shell ShellType) string {
	target := "your shell profile"
	if shell.IsValid() {
		if rcPath, err := GetRCFilePath(shell); err == nil {
			target = rcPath
		}
	}
	return fmt.Sprintf("Add the following to %s:\n\n%s", target, ManagedBlock(shell, m.cfg.ConfigPath(shell)))
}

// ConfigPath returns the configuration file the shell's block sources.
func (m *Manager) ConfigPath(shell ShellType) string {
	return m.cfg.ConfigPath(shell)
}
