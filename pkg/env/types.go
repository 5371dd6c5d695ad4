// pkg/env/types.go
package env

import "github.com/arc-language/pkgrecipe/pkg/platform"

// PackageLayout defines where files are located within a package
type PackageLayout struct {
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
	Binaries  []string // Relative paths to binary directories
	Licenses  []string // Relative paths to license directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "portaudio")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll", ".lib"
	IsStatic bool   // True for .a files and static .lib files
}

// Environment represents one package directory for one target OS
type Environment struct {
	PackagePath string
	OS          platform.OS
}

// CompilerFlags holds compiler and linker flags
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
	LinkFlags    []string // -l flags
	ExtraFlags   []string // e.g. -framework CoreAudio
}
