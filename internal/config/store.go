package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/revenium/gemini-meter/internal/logging"
)

const fileHeader = `# Revenium metering configuration for Gemini CLI.
# Generated by revenium-gemini setup; manual changes are overwritten.
`

// Store reads and writes the configuration file pair.
type Store struct {
	dir    string
	prefer Dialect
	logger logging.Logger
	getenv func(string) string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDir overrides the configuration directory (default ~/.gemini).
func WithDir(dir string) StoreOption {
	return func(s *Store) {
		s.dir = dir
	}
}

// WithPreferredDialect selects which file Load reads first.
func WithPreferredDialect(d Dialect) StoreOption {
	return func(s *Store) {
		s.prefer = d
	}
}

// WithLogger sets the logger used for file operations.
func WithLogger(l logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logging.OrNop(l)
	}
}

// WithGetenv replaces os.Getenv for IsEnvironmentLoaded.
func WithGetenv(getenv func(string) string) StoreOption {
	return func(s *Store) {
		s.getenv = getenv
	}
}

// NewStore creates a Store rooted at ~/.gemini unless WithDir is given.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		prefer: DialectPOSIX,
		logger: logging.Nop(),
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		s.dir = filepath.Join(home, ConfigDirName)
	}

	return s, nil
}

// Dir returns the configuration directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a dialect.
func (s *Store) Path(d Dialect) string {
	return filepath.Join(s.dir, ConfigBaseName+d.Extension())
}

// PreferredPath returns the path of the file matching the preferred dialect.
func (s *Store) PreferredPath() string {
	return s.Path(s.prefer)
}

// Write renders cfg in both dialects and overwrites both files.
//
// Each file is replaced atomically and restricted to owner read/write, but the
// pair is not: if the fish file fails, the POSIX file has already been updated
// and the error is still returned.
func (s *Store) Write(cfg *Config) (*WriteResult, error) {
	if err := os.MkdirAll(s.dir, ConfigDirMode); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	vars := envVars(cfg)
	for _, d := range []Dialect{DialectPOSIX, DialectFish} {
		path := s.Path(d)
		if err := writeConfigFile(path, fileHeader+"\n"+d.Encode(vars)); err != nil {
			return nil, fmt.Errorf("write %s config: %w", d, err)
		}
		s.logger.Debug("wrote configuration", "dialect", d, "path", path)
	}

	return &WriteResult{
		POSIXPath: s.Path(DialectPOSIX),
		FishPath:  s.Path(DialectFish),
	}, nil
}

func writeConfigFile(path, content string) error {
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return err
	}
	if err := os.Chmod(path, ConfigFileMode); err != nil {
		return fmt.Errorf("restrict permissions: %w", err)
	}
	return nil
}

// envVars lists the variables written for cfg, in file order.
func envVars(cfg *Config) []EnvVar {
	multiplier := FormatCostMultiplier(cfg.EffectiveCostMultiplier())

	vars := []EnvVar{
		{Key: EnvTelemetryEnabled, Value: "true"},
		{Key: EnvTelemetryTarget, Value: telemetryTarget},
		{Key: EnvTelemetryEndpoint, Value: OTLPEndpoint(cfg.Endpoint)},
		{Key: EnvTelemetryProtocol, Value: telemetryProtocol},
		{Key: EnvResourceAttributes, Value: EncodeResourceAttributes(map[string]string{
			AttrAPIKey:           cfg.APIKey,
			AttrEmail:            cfg.Email,
			AttrOrganizationName: cfg.OrganizationName,
			AttrProductName:      cfg.ProductName,
			AttrCostMultiplier:   multiplier,
		})},
	}

	if cfg.Email != "" {
		vars = append(vars, EnvVar{Key: EnvSubscriberEmail, Value: cfg.Email})
	}
	if cfg.OrganizationName != "" {
		vars = append(vars, EnvVar{Key: EnvOrganizationName, Value: cfg.OrganizationName})
	}
	if cfg.ProductName != "" {
		vars = append(vars, EnvVar{Key: EnvProductName, Value: cfg.ProductName})
	}
	vars = append(vars, EnvVar{Key: EnvCostMultiplier, Value: multiplier})

	return vars
}

// Load reads the configuration, preferring the file of the preferred dialect.
//
// It returns ErrNotFound when neither file exists and ErrUnparseable when the
// chosen file cannot be decoded or carries no credential. Callers usually
// treat both as "not configured" (see IsAbsent).
func (s *Store) Load() (*Config, error) {
	path, d, err := s.resolve()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	vars, err := d.Decode(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparseable, path, err)
	}

	cfg := configFromVars(vars)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s has no %s attribute", ErrUnparseable, path, AttrAPIKey)
	}

	s.logger.Debug("loaded configuration", "dialect", d, "path", path)
	return cfg, nil
}

// resolve picks the preferred dialect file, falling back to the other one.
func (s *Store) resolve() (string, Dialect, error) {
	for _, d := range []Dialect{s.prefer, s.prefer.Other()} {
		path := s.Path(d)
		if fileExists(path) {
			return path, d, nil
		}
	}
	return "", s.prefer, ErrNotFound
}

// configFromVars rebuilds a Config. Values inside OTEL_RESOURCE_ATTRIBUTES
// win over the standalone variables.
func configFromVars(vars map[string]string) *Config {
	attrs := DecodeResourceAttributes(vars[EnvResourceAttributes])

	cfg := &Config{
		APIKey:           attrs[AttrAPIKey],
		Endpoint:         BaseEndpoint(vars[EnvTelemetryEndpoint]),
		Email:            firstNonEmpty(attrs[AttrEmail], vars[EnvSubscriberEmail]),
		OrganizationName: firstNonEmpty(attrs[AttrOrganizationName], attrs[attrOrganizationID], vars[EnvOrganizationName], vars[envOrganizationID]),
		ProductName:      firstNonEmpty(attrs[AttrProductName], attrs[attrProductID], vars[EnvProductName], vars[envProductID]),
	}

	raw := firstNonEmpty(attrs[AttrCostMultiplier], vars[EnvCostMultiplier])
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && ValidateCostMultiplier(v).Valid {
		cfg.CostMultiplier = &v
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Exists reports whether either dialect file exists, parseable or not.
func (s *Store) Exists() bool {
	return fileExists(s.Path(DialectPOSIX)) || fileExists(s.Path(DialectFish))
}

// IsEnvironmentLoaded reports whether the current process already sees the
// exported variables, i.e. whether the shell has sourced the file.
func (s *Store) IsEnvironmentLoaded() bool {
	return s.getenv(EnvTelemetryEnabled) == "true" &&
		s.getenv(EnvTelemetryEndpoint) != "" &&
		s.getenv(EnvResourceAttributes) != ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
