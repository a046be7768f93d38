package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"
)

// ConfigFile is the top-level YAML configuration document.
type ConfigFile struct {
	MainConfigBlock struct {
		Debug      bool `yaml:"debug"`
		MaxDumpLen int  `yaml:"max_dump_len"`
	} `yaml:"trendt"`
}

// ParseConfigFile returns a new ConfigFile given the path to a YAML
// configuration file.
//
// It supports relative and absolute paths and environment variables.
func ParseConfigFile(path string) (*ConfigFile, error) {
	if path == "" {
		return nil, errors.New("no config path specified")
	}

	contents, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}

	var cfgFile ConfigFile
	err = yaml.Unmarshal(contents, &cfgFile)
	if err != nil {
		return nil, err
	}

	return &cfgFile, nil
}
