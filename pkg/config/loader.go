package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadSpace loads and parses a space specification file. The format is
// chosen by file extension: .yaml and .yml parse as YAML, .json as JSON.
func LoadSpace(path string) (*Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read space file %s: %w", path, err)
	}

	var sp *Space
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		sp, err = ParseSpaceYAML(data)
	case ".json":
		sp, err = ParseSpaceJSON(data)
	default:
		return nil, fmt.Errorf("unsupported space file extension %q (want .yaml, .yml, or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse space file %s: %w", path, err)
	}
	return sp, nil
}
