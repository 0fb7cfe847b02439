package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/kfstorm/soundbreak/internal/logging"
	"github.com/kfstorm/soundbreak/internal/shared/types"
)

// fileConfig is the on-disk document shape.
type fileConfig struct {
	Monitor types.MonitorConfig `json:"monitor"`
}

// Store persists the monitored-process configuration as a JSON file.
type Store struct {
	path string
	log  *logging.Logger
}

// New creates a store writing to the given path.
func New(path string, log *logging.Logger) *Store {
	return &Store{path: path, log: log}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "soundbreak", "config.json"), nil
}

// Path returns the file location backing this store.
func (s *Store) Path() string { return s.path }

// Load reads the persisted config. A missing or unreadable file yields the
// default config; startup must never fail because of a bad config file.
func (s *Store) Load() types.MonitorConfig {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to read config file, using defaults",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return types.DefaultMonitorConfig()
	}

	var doc fileConfig
	if err := sonic.Unmarshal(data, &doc); err != nil {
		s.log.Warn("failed to parse config file, using defaults",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return types.DefaultMonitorConfig()
	}
	if len(doc.Monitor.ProcessNames) == 0 {
		return types.DefaultMonitorConfig()
	}

	s.log.Info("loaded configuration", zap.String("path", s.path))
	return doc.Monitor
}

// Save writes the config, creating the directory as needed.
func (s *Store) Save(cfg types.MonitorConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := sonic.MarshalIndent(fileConfig{Monitor: cfg}, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	s.log.Info("saved configuration", zap.String("path", s.path))
	return nil
}
