// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Host describes the machine the recipe is running on
type Host struct {
	OS   string // linux, darwin, windows
	Arch string // amd64, arm64, 386
}

// DetectHost returns the running host
func DetectHost() Host {
	return Host{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

// String returns a string representation of the host
func (h Host) String() string {
	return fmt.Sprintf("%s/%s", h.OS, h.Arch)
}

// DefaultDescriptor builds the descriptor a native build on h would use.
// The compiler is the toolchain each OS ships by default.
func (h Host) DefaultDescriptor() (Descriptor, error) {
	d := Descriptor{
		BuildType: Release,
		LinkMode:  Static,
		FPIC:      true,
	}

	os, err := ParseOS(h.OS)
	if err != nil {
		return Descriptor{}, fmt.Errorf("unsupported operating system: %s", h.OS)
	}
	d.OS = os

	arch, err := ParseArch(h.Arch)
	if err != nil {
		return Descriptor{}, fmt.Errorf("unsupported architecture: %s", h.Arch)
	}
	d.Arch = arch

	switch d.OS {
	case Macos:
		d.Compiler = AppleClang
	case Windows:
		if commandExists("cl") || !commandExists("gcc") {
			d.Compiler = VisualStudio
		} else {
			d.Compiler = GCC
		}
	default:
		d.Compiler = GCC
	}

	return d.Normalize(), nil
}

// Detect returns the default descriptor for the running host
func Detect() (Descriptor, error) {
	return DetectHost().DefaultDescriptor()
}
