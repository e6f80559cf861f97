package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = ".convlint.toml"

// Config carries the optional defaults read from .convlint.toml. Flags win
// over file values.
type Config struct {
	Policy   string   `toml:"policy"`
	Report   string   `toml:"report"`
	Store    string   `toml:"store"`
	BaseURL  string   `toml:"base_url"`
	Excludes []string `toml:"excludes"`
}

// LoadConfig reads the config file at path. A missing file is not an
// error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	var config Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	return config, nil
}
