package registry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// IndexFile is the metadata file at the root of every package
const IndexFile = "index.toml"

// Entry is the link metadata consumers read from <package>/index.toml
type Entry struct {
	Name         string            `toml:"name"`
	Version      string            `toml:"version"`
	Libs         []string          `toml:"libs"`
	ExeLinkFlags []string          `toml:"exe_link_flags,omitempty"`
	Settings     map[string]string `toml:"settings"`
	Files        []string          `toml:"files,omitempty"`
}

// Registry reads and writes package metadata under a package directory
type Registry struct {
	packageDir string
}

// New creates a Registry pointed at a package directory
func New(packageDir string) *Registry {
	return &Registry{
		packageDir: packageDir,
	}
}

// Path returns the location of index.toml
func (r *Registry) Path() string {
	return filepath.Join(r.packageDir, IndexFile)
}

// Save writes entry to index.toml, replacing any previous metadata
func (r *Registry) Save(entry *Entry) error {
	if entry == nil || entry.Name == "" {
		return fmt.Errorf("registry: entry name is required")
	}
	if len(entry.Libs) == 0 {
		return fmt.Errorf("registry: package '%s' has no libs", entry.Name)
	}

	if err := os.MkdirAll(r.packageDir, 0755); err != nil {
		return fmt.Errorf("registry: creating package directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("registry: encoding '%s': %w", entry.Name, err)
	}

	if err := os.WriteFile(r.Path(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("registry: writing %s: %w", IndexFile, err)
	}
	return nil
}

// Load reads and parses index.toml
func (r *Registry) Load() (*Entry, error) {
	if _, err := os.Stat(r.packageDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: package directory '%s' not found", r.packageDir)
	}

	data, err := os.ReadFile(r.Path())
	if err != nil {
		return nil, fmt.Errorf("registry: found package directory '%s', but missing %s", r.packageDir, IndexFile)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", r.Path(), err)
	}

	return &entry, nil
}
