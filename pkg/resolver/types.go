// pkg/resolver/types.go
package resolver

import (
	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/patch"
	"github.com/arc-language/pkgrecipe/pkg/platform"
)

// PackageName is the canonical name of the packaged library
const PackageName = "portaudio"

// Toolchain is the build driver chosen for a plan. It is a closed set:
// Autotools or NativeBuild.
type Toolchain interface {
	// Kind names the strategy ("autotools", "native")
	Kind() string

	isToolchain()
}

// Autotools drives ./configure && make
type Autotools struct {
	ConfigureFlags []string `yaml:"configure_flags"`
}

// NativeBuild drives a generated CMake build
type NativeBuild struct {
	Definitions map[string]bool `yaml:"definitions"`
}

func (Autotools) Kind() string   { return "autotools" }
func (NativeBuild) Kind() string { return "native" }

func (Autotools) isToolchain()   {}
func (NativeBuild) isToolchain() {}

// PackageInfo is the link metadata emitted with the package
type PackageInfo struct {
	BaseName     string   `yaml:"base_name"`
	Libs         []string `yaml:"libs"`
	ExeLinkFlags []string `yaml:"exe_link_flags,omitempty"`
}

// BuildPlan is everything needed to build and package one descriptor
type BuildPlan struct {
	Descriptor platform.Descriptor
	Toolchain  Toolchain
	Patches    []*patch.Rule
	Manifest   *manifest.Manifest
	Info       PackageInfo
}

// PatchNames lists the selected patch rules by name
func (p *BuildPlan) PatchNames() []string {
	names := make([]string, 0, len(p.Patches))
	for _, r := range p.Patches {
		names = append(names, r.Name)
	}
	return names
}
