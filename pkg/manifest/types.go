// pkg/manifest/types.go
package manifest

import "errors"

// ErrArtifactMissing indicates a required manifest entry matched no file
var ErrArtifactMissing = errors.New("expected artifact missing")

// Category classifies a collected file
type Category string

const (
	Headers      Category = "headers"
	License      Category = "license"
	StaticLib    Category = "static-lib"
	SharedLib    Category = "shared-lib"
	ImportLib    Category = "import-lib"
	DebugSymbols Category = "debug-symbols"
	CMakeModule  Category = "cmake-module"
)

// Package layout, relative to the package directory
const (
	IncludeDir  = "include"
	LibDir      = "lib"
	BinDir      = "bin"
	LicensesDir = "licenses"
	RootDir     = "."
)

// Source layout, relative to the work directory
const (
	SourcesDir = "sources"
	BuildDir   = "build"
)

// Entry says which files go into which package subdirectory
type Entry struct {
	Pattern    string   `yaml:"pattern"`
	Category   Category `yaml:"category"`
	Src        string   `yaml:"src"` // relative to the work directory
	Dst        string   `yaml:"dst"` // relative to the package directory
	Flatten    bool     `yaml:"flatten,omitempty"`
	IgnoreCase bool     `yaml:"ignore_case,omitempty"`
	Optional   bool     `yaml:"optional,omitempty"`
}

// Manifest is the ordered list of entries collected into a package
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// Add appends an entry and returns the manifest for chaining
func (m *Manifest) Add(e Entry) *Manifest {
	m.Entries = append(m.Entries, e)
	return m
}

// Categories returns the distinct categories in entry order
func (m *Manifest) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, e := range m.Entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// Has reports whether any entry carries category c
func (m *Manifest) Has(c Category) bool {
	for _, e := range m.Entries {
		if e.Category == c {
			return true
		}
	}
	return false
}

// ByCategory returns the entries carrying category c
func (m *Manifest) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
