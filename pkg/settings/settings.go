// Package settings persists editor preferences as TOML in ~/.schemedit.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/flanksource/commons/logger"

	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Config holds persistent editor settings
type Config struct {
	UX             ux.Config `toml:"ux"`
	InitialZoomExp float64   `toml:"initial_zoom_exp"`
	Descriptor     string    `toml:"descriptor"` // placed by the add key
	LastScript     string    `toml:"last_script"`
	LastDir        string    `toml:"last_dir"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		UX:         ux.DefaultConfig(),
		Descriptor: "and",
		LastDir:    cwd,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".schemedit"
	}
	return filepath.Join(home, ".schemedit")
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are reported in the error but the known ones still apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("loading %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("loading %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadConfig loads the configuration from ConfigPath, falling back to
// defaults on error.
func LoadConfig() Config {
	cfg, err := Load(ConfigPath())
	if err != nil {
		logger.Warnf("%v", err)
	}
	return cfg
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# schemedit configuration\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to ConfigPath.
func SaveConfig(cfg Config) error {
	return Save(ConfigPath(), cfg)
}
