// pkg/env/env.go
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/registry"
)

// New creates an Environment for the package at packagePath
func New(packagePath string, target platform.OS) *Environment {
	return &Environment{
		PackagePath: packagePath,
		OS:          target,
	}
}

// GetLibraryPaths returns existing library directories
func (e *Environment) GetLibraryPaths() []string {
	return e.existing(GetPackageLayout().Libraries)
}

// GetIncludePaths returns existing include directories
func (e *Environment) GetIncludePaths() []string {
	return e.existing(GetPackageLayout().Includes)
}

// GetBinaryPaths returns existing binary directories
func (e *Environment) GetBinaryPaths() []string {
	return e.existing(GetPackageLayout().Binaries)
}

func (e *Environment) existing(rel []string) []string {
	var out []string
	for _, r := range rel {
		p := filepath.Join(e.PackagePath, r)
		if dirExists(p) {
			out = append(out, p)
		}
	}
	return out
}

// Flags derives consumer compiler and linker flags from package metadata
func (e *Environment) Flags(entry *registry.Entry) *CompilerFlags {
	flags := &CompilerFlags{}

	for _, p := range e.GetIncludePaths() {
		flags.IncludeFlags = append(flags.IncludeFlags, "-I"+p)
	}
	for _, p := range e.GetLibraryPaths() {
		flags.LibraryFlags = append(flags.LibraryFlags, "-L"+p)
	}
	if entry != nil {
		for _, lib := range entry.Libs {
			flags.LinkFlags = append(flags.LinkFlags, "-l"+lib)
		}
		flags.ExtraFlags = append(flags.ExtraFlags, entry.ExeLinkFlags...)
	}

	return flags
}

// CFlags returns the compile flags as one string
func (f *CompilerFlags) CFlags() string {
	return strings.Join(f.IncludeFlags, " ")
}

// LDFlags returns the link flags as one string, search paths first
func (f *CompilerFlags) LDFlags() string {
	all := make([]string, 0, len(f.LibraryFlags)+len(f.LinkFlags)+len(f.ExtraFlags))
	all = append(all, f.LibraryFlags...)
	all = append(all, f.LinkFlags...)
	all = append(all, f.ExtraFlags...)
	return strings.Join(all, " ")
}

// ShellExports renders flags as POSIX shell code that prepends to the
// consumer's CFLAGS, LDFLAGS and PATH
func ShellExports(packagePath string, f *CompilerFlags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", packagePath)
	fmt.Fprintf(&b, "export CFLAGS=%s\n", shellQuote(strings.TrimSpace(f.CFlags()+" ${CFLAGS}")))
	fmt.Fprintf(&b, "export LDFLAGS=%s\n", shellQuote(strings.TrimSpace(f.LDFlags()+" ${LDFLAGS}")))
	bin := filepath.Join(packagePath, "bin")
	if dirExists(bin) {
		fmt.Fprintf(&b, "export PATH=%s\n", shellQuote(bin+":${PATH}"))
	}
	return b.String()
}

// shellQuote double-quotes s so ${VAR} references still expand
func shellQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// FindLibrary searches for a library by its link name. Both lib<name> and
// <name> file names are tried, since Windows toolchains drop the prefix.
func (e *Environment) FindLibrary(name string) *Library {
	return e.find(name, GetLibraryExtensions(e.OS))
}

// FindSharedLibrary searches only for shared libraries
func (e *Environment) FindSharedLibrary(name string) *Library {
	return e.find(name, GetSharedLibraryExtensions(e.OS))
}

// FindStaticLibrary searches only for static libraries
func (e *Environment) FindStaticLibrary(name string) *Library {
	return e.find(name, GetStaticLibraryExtensions(e.OS))
}

func (e *Environment) find(name string, extensions []string) *Library {
	dirs := append(e.GetLibraryPaths(), e.GetBinaryPaths()...)

	for _, dir := range dirs {
		for _, ext := range extensions {
			for _, prefix := range []string{"lib", ""} {
				filename := prefix + name + ext
				fullPath := filepath.Join(dir, filename)

				if fileExists(fullPath) {
					return newLibrary(name, fullPath, ext)
				}

				// versioned: libportaudio.so.2
				matches, _ := filepath.Glob(filepath.Join(dir, filename+".*"))
				if len(matches) > 0 {
					return newLibrary(name, matches[0], ext)
				}
			}
		}
	}

	return nil
}

// HasLibrary checks if a library exists in the package
func (e *Environment) HasLibrary(name string) bool {
	return e.FindLibrary(name) != nil
}

func newLibrary(name, path, ext string) *Library {
	return &Library{
		Name:     name,
		Path:     path,
		Type:     ext,
		IsStatic: ext == ".a" || ext == ".lib",
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
