package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Ensure DirCatalog implements Catalog
var _ Catalog = (*DirCatalog)(nil)

// manifestPatterns locate agent manifests below the agents directory:
// top-level <name>.yaml files and <dir>/.../agent.yaml files.
var manifestPatterns = []string{
	"*.{yaml,yml}",
	"*/**/agent.{yaml,yml}",
}

// Manifest is the on-disk YAML description of an agent.
type Manifest struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Version      string            `yaml:"version"`
	Author       string            `yaml:"author"`
	Tags         []string          `yaml:"tags,omitempty"`
	Capabilities []string          `yaml:"capabilities,omitempty"`
	Command      string            `yaml:"command,omitempty"`
	Args         []string          `yaml:"args,omitempty"`
	Env          map[string]string `yaml:"env,omitempty"`
	Disabled     bool              `yaml:"disabled,omitempty"`
}

// DirCatalog discovers agents from YAML manifests in a directory tree.
type DirCatalog struct {
	mu      sync.RWMutex
	root    string
	records []AgentRecord
	index   map[string]int
	log     *slog.Logger
}

func NewDirCatalog(log *slog.Logger) *DirCatalog {
	if log == nil {
		log = slog.Default()
	}
	return &DirCatalog{index: make(map[string]int), log: log}
}

// Root returns the directory scanned by the last Discover call.
func (c *DirCatalog) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Discover scans root for manifests. A missing directory yields an empty
// catalog. Manifests that fail to parse are kept with StateFailed so the
// user can see them.
func (c *DirCatalog) Discover(root string) error {
	var records []AgentRecord
	index := make(map[string]int)

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.log.Info("agents directory does not exist", "path", root)
	case err != nil:
		return fmt.Errorf("catalog: %w", err)
	case !info.IsDir():
		return fmt.Errorf("catalog: %s is not a directory", root)
	default:
		paths, err := manifestPaths(os.DirFS(root))
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		for _, rel := range paths {
			rec := loadManifest(root, rel)
			if _, dup := index[rec.Name]; dup {
				c.log.Warn("duplicate agent name, keeping first", "name", rec.Name, "path", rec.Path)
				continue
			}
			if rec.State == StateFailed {
				c.log.Warn("invalid agent manifest", "path", rec.Path, "error", rec.Err)
			}
			index[rec.Name] = len(records)
			records = append(records, rec)
		}
	}

	c.mu.Lock()
	c.root = root
	c.records = records
	c.index = index
	c.mu.Unlock()

	c.log.Debug("catalog discovered", "path", root, "agents", len(records))
	return nil
}

func (c *DirCatalog) All() []AgentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AgentRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *DirCatalog) Get(name string) (AgentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[name]
	if !ok {
		return AgentRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.records[i], nil
}

func manifestPaths(fsys fs.FS) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range manifestPatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func loadManifest(root, rel string) AgentRecord {
	full := filepath.Join(root, filepath.FromSlash(rel))
	rec := AgentRecord{
		Name:  defaultName(rel),
		Path:  full,
		Dir:   filepath.Dir(full),
		State: StateFailed,
	}

	data, err := os.ReadFile(full)
	if err != nil {
		rec.Err = err.Error()
		return rec
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		rec.Err = err.Error()
		return rec
	}

	if name := strings.TrimSpace(m.Name); name != "" {
		rec.Name = name
	}
	rec.Description = m.Description
	rec.Version = m.Version
	rec.Author = m.Author
	rec.Tags = dedupe(m.Tags)
	rec.Capabilities = dedupe(m.Capabilities)
	rec.Command = m.Command
	rec.Args = m.Args
	rec.Env = m.Env

	switch {
	case m.Disabled:
		rec.State = StateUnloaded
	case m.Command == "":
		rec.State = StateDiscovered
	default:
		rec.State = StateLoaded
	}
	return rec
}

// defaultName derives an agent name from its manifest path: the file stem for
// top-level manifests, the parent directory for agent.yaml files.
func defaultName(rel string) string {
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "agent" {
		if dir := path.Dir(rel); dir != "." {
			return path.Base(dir)
		}
	}
	return stem
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
