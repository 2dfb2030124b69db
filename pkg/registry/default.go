// pkg/registry/default.go
package registry

import (
	_ "embed"
	"errors"
	"os"
)

//go:embed activities.json
var defaultRegistry []byte

// Default returns the registry shipped with the binary.
func Default() (*ActivityRegistry, error) {
	return Parse(defaultRegistry)
}

// LoadOrDefault reads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*ActivityRegistry, error) {
	if path != "" {
		reg, err := LoadRegistry(path)
		if err == nil {
			return reg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return Default()
}
