package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"inespector/log"
)

type Config struct {
	Scan ScanConfig `toml:"scan"`
}

// ScanConfig holds the scan command defaults, used when the corresponding
// flags are not given.
type ScanConfig struct {
	RomDir  string `toml:"rom_dir"`
	ShowAll bool   `toml:"show_all"`
	Jobs    int    `toml:"jobs"`
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("inespector")
	if err := configdir.MakePath(dir); err != nil {
		log.ModConfig.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

func defaultConfig() Config {
	return Config{Scan: ScanConfig{RomDir: "."}}
}

// LoadConfigOrDefault loads the configuration from the inespector config
// directory, or provides a default one. A missing file is created with the
// defaults so there is always a config to edit.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		cfg = defaultConfig()
		if errors.Is(err, os.ErrNotExist) {
			if err := SaveConfig(cfg); err != nil {
				log.ModConfig.Warnf("failed to write default config: %v", err)
			}
		} else {
			log.ModConfig.Warnf("failed to load config: %v", err)
		}
		return cfg
	}

	if cfg.Scan.RomDir == "" {
		cfg.Scan.RomDir = "."
	}
	return cfg
}

// SaveConfig into inespector config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
