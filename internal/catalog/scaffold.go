package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by WriteManifest when the target file already exists.
var ErrExists = errors.New("agent manifest already exists")

// WriteManifest writes m as <dir>/<name>.yaml, creating dir if needed, and
// returns the path written. Existing manifests are never overwritten.
func WriteManifest(dir string, m Manifest) (string, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return "", fmt.Errorf("catalog: manifest name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("catalog: invalid agent name %q", name)
	}
	m.Name = name

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}

	path := filepath.Join(dir, name+".yaml")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("catalog: %w", err)
	}
	return path, f.Close()
}
