package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigFilenames are looked up in the collection root, first match wins.
var ConfigFilenames = []string{
	".collection-check.yaml",
	".collection-check.yml",
	".collection-check.toml",
}

// FindConfig returns the first config file present in root, or "" if none is.
func FindConfig(root string) (string, error) {
	for _, name := range ConfigFilenames {
		p := filepath.Join(root, name)
		st, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("checking config file: %w", err)
		}
		if st.IsDir() {
			return "", fmt.Errorf("config file %s is a directory", p)
		}
		return p, nil
	}
	return "", nil
}

// LoadConfig reads a YAML or TOML config file, sets FilePath, and validates it.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".toml":
		err = toml.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	c.FilePath = absPath

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", filename, err)
	}

	return &c, nil
}

// LoadPipeline resolves the pipeline for root. An explicit filename wins over
// discovery; with neither, the built-in pipeline is returned.
func LoadPipeline(root, filename string) (*Pipeline, error) {
	if filename == "" {
		found, err := FindConfig(root)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return DefaultPipeline(), nil
		}
		filename = found
	}

	c, err := LoadConfig(filename)
	if err != nil {
		return nil, err
	}
	return c.Resolve()
}
