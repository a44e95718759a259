package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"base16builder/profile"
)

// FileName is the configuration file looked up in the sources root.
const FileName = "base16-builder.toml"

type Config struct {
	Root       string `toml:"root"`
	Encoder    string `toml:"encoder"`
	PlutilPath string `toml:"plutil_path,omitempty"`
	TempDir    string `toml:"temp_dir,omitempty"`
	Verbose    bool   `toml:"verbose"`
}

func Default() Config {
	return Config{
		Root:       ".",
		Encoder:    profile.ModeAuto,
		PlutilPath: "plutil",
		Verbose:    false,
	}
}

func Load(dir string) (Config, error) {
	cfgPath := filepath.Join(dir, FileName)

	raw, err := os.ReadFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", cfgPath, err)
	}

	def := Default()
	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	if cfg.Encoder == "" {
		cfg.Encoder = def.Encoder
	}
	if cfg.PlutilPath == "" {
		cfg.PlutilPath = def.PlutilPath
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", cfgPath, err)
	}

	return cfg, nil
}

// Validate checks field values that the builder cannot recover from.
func (c Config) Validate() error {
	switch c.Encoder {
	case profile.ModeAuto, profile.ModePlutil, profile.ModeNative, profile.ModeNone:
		return nil
	}
	return fmt.Errorf("unknown encoder %q (want %s, %s, %s or %s)",
		c.Encoder, profile.ModeAuto, profile.ModePlutil, profile.ModeNative, profile.ModeNone)
}

func Save(cfg Config) error {
	cfgPath := filepath.Join(cfg.Root, FileName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return err
	}

	tmp := cfgPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, cfgPath)
}
