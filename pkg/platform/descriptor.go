// pkg/platform/descriptor.go
package platform

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidDescriptor indicates a descriptor outside the supported settings
var ErrInvalidDescriptor = errors.New("invalid platform descriptor")

// OS is the target operating system setting
type OS string

const (
	Linux   OS = "Linux"
	Macos   OS = "Macos"
	Windows OS = "Windows"
)

// AllOS contains every supported operating system
var AllOS = []OS{Linux, Macos, Windows}

// Compiler is the target compiler identity
type Compiler string

const (
	GCC          Compiler = "gcc"
	Clang        Compiler = "clang"
	AppleClang   Compiler = "apple-clang"
	VisualStudio Compiler = "Visual Studio"
)

// AllCompilers contains every supported compiler
var AllCompilers = []Compiler{GCC, Clang, AppleClang, VisualStudio}

// Arch is the target CPU architecture
type Arch string

const (
	ArchX86    Arch = "x86"
	ArchX86_64 Arch = "x86_64"
	ArchARMv8  Arch = "armv8" // Apple silicon and aarch64 hosts
)

// AllArchs contains every supported architecture
var AllArchs = []Arch{ArchX86, ArchX86_64, ArchARMv8}

// BuildType selects optimized or debug output
type BuildType string

const (
	Release BuildType = "Release"
	Debug   BuildType = "Debug"
)

// LinkMode is static or shared linking of the produced library
type LinkMode string

const (
	Static LinkMode = "static"
	Shared LinkMode = "shared"
)

// Descriptor is the immutable input to plan resolution
type Descriptor struct {
	OS        OS        `yaml:"os" toml:"os"`
	Compiler  Compiler  `yaml:"compiler" toml:"compiler"`
	Arch      Arch      `yaml:"arch" toml:"arch"`
	BuildType BuildType `yaml:"build_type" toml:"build_type"`
	LinkMode  LinkMode  `yaml:"link_mode" toml:"link_mode"`
	FPIC      bool      `yaml:"fpic" toml:"fpic"` // ignored on Windows
}

// Normalize fills defaults and drops settings that do not apply.
// The returned value is a copy; d is never modified.
func (d Descriptor) Normalize() Descriptor {
	if d.BuildType == "" {
		d.BuildType = Release
	}
	if d.LinkMode == "" {
		d.LinkMode = Static
	}
	if d.OS == Windows {
		d.FPIC = false
	}
	return d
}

// Validate checks every field against its closed set
func (d Descriptor) Validate() error {
	if !slices.Contains(AllOS, d.OS) {
		return fmt.Errorf("%w: unknown os %q", ErrInvalidDescriptor, d.OS)
	}
	if !slices.Contains(AllCompilers, d.Compiler) {
		return fmt.Errorf("%w: unknown compiler %q", ErrInvalidDescriptor, d.Compiler)
	}
	if !slices.Contains(AllArchs, d.Arch) {
		return fmt.Errorf("%w: unknown arch %q", ErrInvalidDescriptor, d.Arch)
	}
	switch d.BuildType {
	case Release, Debug:
	default:
		return fmt.Errorf("%w: unknown build type %q", ErrInvalidDescriptor, d.BuildType)
	}
	switch d.LinkMode {
	case Static, Shared:
	default:
		return fmt.Errorf("%w: unknown link mode %q", ErrInvalidDescriptor, d.LinkMode)
	}

	if d.Compiler == VisualStudio && d.OS != Windows {
		return fmt.Errorf("%w: %s is only available on %s", ErrInvalidDescriptor, VisualStudio, Windows)
	}
	if d.Compiler == AppleClang && d.OS != Macos {
		return fmt.Errorf("%w: %s is only available on %s", ErrInvalidDescriptor, AppleClang, Macos)
	}
	return nil
}

// IsShared reports whether the descriptor asks for a shared library
func (d Descriptor) IsShared() bool {
	return d.LinkMode == Shared
}

// String returns a compact settings string, e.g. Linux/gcc/x86_64/Release/static
func (d Descriptor) String() string {
	s := fmt.Sprintf("%s/%s/%s/%s/%s", d.OS, d.Compiler, d.Arch, d.BuildType, d.LinkMode)
	if d.FPIC {
		s += "+fPIC"
	}
	return s
}

// Settings flattens the descriptor into the key/value form stored with the package
func (d Descriptor) Settings() map[string]string {
	return map[string]string{
		"os":         string(d.OS),
		"compiler":   string(d.Compiler),
		"arch":       string(d.Arch),
		"build_type": string(d.BuildType),
		"shared":     fmt.Sprintf("%t", d.IsShared()),
		"fPIC":       fmt.Sprintf("%t", d.FPIC),
	}
}

// ParseOS matches an OS setting case-insensitively
func ParseOS(s string) (OS, error) {
	for _, o := range AllOS {
		if equalFold(string(o), s) {
			return o, nil
		}
	}
	// Accept Go's names as well
	switch s {
	case "linux":
		return Linux, nil
	case "darwin", "macos":
		return Macos, nil
	case "windows":
		return Windows, nil
	}
	return "", fmt.Errorf("%w: unknown os %q", ErrInvalidDescriptor, s)
}

// ParseCompiler matches a compiler setting; "msvc" is accepted for Visual Studio
func ParseCompiler(s string) (Compiler, error) {
	for _, c := range AllCompilers {
		if equalFold(string(c), s) {
			return c, nil
		}
	}
	if equalFold(s, "msvc") {
		return VisualStudio, nil
	}
	return "", fmt.Errorf("%w: unknown compiler %q", ErrInvalidDescriptor, s)
}

// ParseArch matches an arch setting; Go's GOARCH names are accepted too
func ParseArch(s string) (Arch, error) {
	switch s {
	case "x86", "386", "i386", "i686":
		return ArchX86, nil
	case "x86_64", "amd64":
		return ArchX86_64, nil
	case "armv8", "arm64", "aarch64":
		return ArchARMv8, nil
	}
	return "", fmt.Errorf("%w: unknown arch %q", ErrInvalidDescriptor, s)
}

// ParseBuildType matches Release or Debug case-insensitively
func ParseBuildType(s string) (BuildType, error) {
	switch {
	case equalFold(s, string(Release)):
		return Release, nil
	case equalFold(s, string(Debug)):
		return Debug, nil
	}
	return "", fmt.Errorf("%w: unknown build type %q", ErrInvalidDescriptor, s)
}
