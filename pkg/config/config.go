// Package config loads optional scan defaults from a .codemd.yaml file.
// Values from the file sit underneath explicit command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the config file looked up in the working directory.
const ConfigFileName = ".codemd.yaml"

// FileConfig holds scan defaults read from a config file. Pointer fields
// distinguish "unset" from an explicit false.
type FileConfig struct {
	Extensions        []string `mapstructure:"extensions"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns"`
	ExcludeExtensions []string `mapstructure:"exclude_extensions"`
	Output            string   `mapstructure:"output"`
	MaxFileSizeKB     int      `mapstructure:"max_file_size_kb"`
	Structure         *bool    `mapstructure:"structure"`
	Gitignore         *bool    `mapstructure:"gitignore"`
	TokenModel        string   `mapstructure:"token_model"`
}

// Load reads configuration from explicitPath, or from .codemd.yaml in the
// working directory when no explicit path is given. A missing default file
// yields an empty configuration; a missing explicit file is an error.
func Load(workingDirectory, explicitPath string) (FileConfig, error) {
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return FileConfig{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	configPath := explicitPath
	if configPath == "" {
		configPath = filepath.Join(workingDirectory, ConfigFileName)
		if _, err := os.Stat(configPath); err != nil {
			return FileConfig{}, nil
		}
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workingDirectory, configPath)
	}

	return loadConfigurationFromPath(configPath)
}

func loadConfigurationFromPath(path string) (FileConfig, error) {
	loader := viper.New()
	loader.SetConfigFile(path)
	loader.SetConfigType("yaml")

	if err := loader.ReadInConfig(); err != nil {
		return FileConfig{}, fmt.Errorf("read configuration %s: %w", path, err)
	}

	var cfg FileConfig
	if err := loader.Unmarshal(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse configuration %s: %w", path, err)
	}
	return cfg, nil
}
