package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/doeshing/rxdbg/assets"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/pkg/filesystem"
	"github.com/doeshing/rxdbg/internal/ports"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RXDBG_MATCHER_ENGINE.
	EnvPrefix = "RXDBG_"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = EnvPrefix + "CONFIG"
)

// FileLoader loads YAML configuration from ~/.rxdbg/config.yaml (overridable via
// RXDBG_CONFIG) and applies RXDBG_* environment overrides on top.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
		if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, err
		}
	}

	return parse(data)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// Save writes cfg to the config file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Backup copies the current config file next to itself with a timestamp
// suffix and returns the backup path.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// Defaults returns the embedded default configuration without env overrides.
func Defaults() (domain.Config, error) {
	var cfg domain.Config
	if err := yamlv3.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decode embedded defaults: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

func parse(data []byte) (domain.Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return domain.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return domain.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg domain.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

// envKey maps RXDBG_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Matcher.Engine == "" {
		cfg.Matcher.Engine = domain.EngineECMAScript
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.BackendSQLite
	}
	if cfg.History.Key == "" {
		cfg.History.Key = domain.DefaultHistoryKey
	}
	if cfg.History.TimestampLayout == "" {
		cfg.History.TimestampLayout = domain.DefaultTimestampLayout
	}
	if cfg.History.ListLimit == 0 {
		cfg.History.ListLimit = domain.DefaultHistoryLimit
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = domain.DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = domain.DefaultServerPort
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
