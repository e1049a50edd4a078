// Package config loads and saves the settings file shared by the command-line tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	steg "github.com/alza54/find-web-session-challenge"
)

// Settings is the full contents of a settings file.
type Settings struct {
	Codec   steg.Config `yaml:"codec"`   // The codec configuration used for every image.
	Workers int         `yaml:"workers"` // The number of images decoded at once. Zero or less means one per CPU.
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{Codec: steg.DefaultConfig()}
}

// Load reads the settings at filename. Keys missing from the file keep their default values,
// and a missing file yields the defaults.
func Load(filename string) (Settings, error) {
	conf := Default()

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return Settings{}, err
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Settings{}, fmt.Errorf("unable to parse the settings in %q: %w", filename, err)
	}
	return conf, nil
}

// Save writes s to filename.
func Save(filename string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
