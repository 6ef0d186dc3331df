package ignore

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	// IgnoreFileName is the default name of the ignore file
	IgnoreFileName = ".entitydiffignore"
)

// TomlConfig represents the TOML structure of the .entitydiffignore file
type TomlConfig struct {
	Entities        PatternConfig `toml:"entities,omitempty"`
	Tables          PatternConfig `toml:"tables,omitempty"`
	Sequences       PatternConfig `toml:"sequences,omitempty"`
	TableGenerators PatternConfig `toml:"table_generators,omitempty"`
}

// PatternConfig is one [section] of the ignore file
type PatternConfig struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// LoadIgnoreFileFromPath loads an ignore file from the specified path
// Returns nil if the file doesn't exist (ignore functionality is optional)
func LoadIgnoreFileFromPath(filePath string) (*IgnoreConfig, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var tomlConfig TomlConfig
	if _, err := toml.DecodeFile(filePath, &tomlConfig); err != nil {
		return nil, err
	}

	return &IgnoreConfig{
		Entities:        tomlConfig.Entities.Patterns,
		Tables:          tomlConfig.Tables.Patterns,
		Sequences:       tomlConfig.Sequences.Patterns,
		TableGenerators: tomlConfig.TableGenerators.Patterns,
	}, nil
}
