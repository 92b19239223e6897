// Package config provides configuration management for pdf2md.
// Configuration is stored in a single JSON file, in the teacher's
// load/default/save style, trimmed to the fields the conversion pipeline
// actually consumes (spec §3, §6, §9).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/pdferr"
	"github.com/rapidai/pdf2md/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name.
	DefaultConfigFileName = "config.json"
	// AppName names the config directory under the user's config home.
	AppName = "pdf2md"
)

// Manager manages the on-disk JSON configuration file.
type Manager struct {
	configPath string
	config     *types.Config
	mu         sync.RWMutex
}

// defaultConfigDir returns ~/.config/pdf2md.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfig returns a Config populated with spec.md's default
// tunables and imageMode=none (spec §6).
func DefaultConfig() *types.Config {
	return &types.Config{
		ImageMode: types.ImageModeNone,
		Tunables:  types.DefaultTunables(),
	}
}

// NewManager creates a Manager. An empty or relative configPath resolves
// inside the system config directory; an absolute path is used as-is.
func NewManager(configPath string) (*Manager, error) {
	var finalPath string

	switch {
	case configPath == "":
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, pdferr.New(pdferr.CodeInvalidConfig, "failed to resolve config directory", err)
		}
		finalPath = filepath.Join(dir, DefaultConfigFileName)
	case filepath.IsAbs(configPath):
		finalPath = configPath
	default:
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, pdferr.New(pdferr.CodeInvalidConfig, "failed to resolve config directory", err)
		}
		finalPath = filepath.Join(dir, filepath.Base(configPath))
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0o700); err != nil {
		return nil, pdferr.New(pdferr.CodeInvalidConfig, "failed to create config directory", err)
	}

	m := &Manager{configPath: finalPath, config: DefaultConfig()}
	_ = m.Load()
	return m, nil
}

// Load loads configuration from the config file, falling back to defaults
// on a missing or malformed file.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = DefaultConfig()
			return nil
		}
		return pdferr.New(pdferr.CodeInvalidConfig, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
		m.config = DefaultConfig()
		return nil
	}

	m.config = cfg
	return nil
}

// Save writes the current configuration to the config file.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return pdferr.New(pdferr.CodeInvalidConfig, "failed to marshal config", err)
	}
	if err := os.WriteFile(m.configPath, data, 0o600); err != nil {
		return pdferr.New(pdferr.CodeInvalidConfig, "failed to write config file", err)
	}
	return nil
}

// Config returns the current in-memory configuration.
func (m *Manager) Config() *types.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig replaces the in-memory configuration.
func (m *Manager) SetConfig(cfg *types.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
}

// Validate checks the pre-flight invariants spec §7 calls fatal:
// imageMode=save requires a non-empty imageSavePath.
func Validate(cfg *types.Config) error {
	if cfg.ImageMode == types.ImageModeSave && cfg.ImageSavePath == "" {
		return pdferr.New(pdferr.CodeInvalidConfig, "imageSavePath is required when imageMode=save", nil)
	}
	return nil
}
