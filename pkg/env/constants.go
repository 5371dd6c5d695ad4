// pkg/env/constants.go
package env

import (
	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/platform"
)

// GetPackageLayout returns the directory structure every package uses
func GetPackageLayout() PackageLayout {
	return PackageLayout{
		Libraries: []string{manifest.LibDir},
		Includes:  []string{manifest.IncludeDir},
		Binaries:  []string{manifest.BinDir},
		Licenses:  []string{manifest.LicensesDir},
	}
}

// GetLibraryExtensions returns file extensions to look for on target
func GetLibraryExtensions(target platform.OS) []string {
	switch target {
	case platform.Macos:
		return []string{".dylib", ".a"}
	case platform.Windows:
		return []string{".lib", ".dll.a", ".a", ".dll"}
	default:
		return []string{".so", ".a"}
	}
}

// GetSharedLibraryExtensions returns only shared library extensions
func GetSharedLibraryExtensions(target platform.OS) []string {
	switch target {
	case platform.Macos:
		return []string{".dylib"}
	case platform.Windows:
		return []string{".dll"}
	default:
		return []string{".so"}
	}
}

// GetStaticLibraryExtensions returns only static library extensions
func GetStaticLibraryExtensions(target platform.OS) []string {
	switch target {
	case platform.Windows:
		return []string{".lib", ".a"} // .lib can be import lib or static lib
	default:
		return []string{".a"}
	}
}
