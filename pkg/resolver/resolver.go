// pkg/resolver/resolver.go
package resolver

import (
	"errors"
	"fmt"
	"path"

	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/patch"
	"github.com/arc-language/pkgrecipe/pkg/platform"
)

// ErrUnsupportedPlatform indicates a descriptor with no build branch
var ErrUnsupportedPlatform = errors.New("platform not supported")

// MacFrameworks are linked into every consumer on Macos
var MacFrameworks = []string{"CoreAudio", "AudioToolbox", "AudioUnit", "CoreServices", "Carbon"}

// LinuxStaticLibs follow the base library on Linux static builds. The
// order is kept exactly; static archive linkers are order-sensitive.
var LinuxStaticLibs = []string{"jack", "asound", "m", "pthread"}

// WindowsGCCStaticLibs follow the base library on Windows gcc static builds
var WindowsGCCStaticLibs = []string{"winmm"}

// Resolve maps a descriptor to its build plan. It reads nothing but d.
func Resolve(d platform.Descriptor) (*BuildPlan, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	tc, err := selectToolchain(d)
	if err != nil {
		return nil, err
	}

	m, err := buildManifest(d)
	if err != nil {
		return nil, err
	}

	info, err := packageInfo(d)
	if err != nil {
		return nil, err
	}

	return &BuildPlan{
		Descriptor: d,
		Toolchain:  tc,
		Patches:    patch.Select(d, patch.Rules),
		Manifest:   m,
		Info:       info,
	}, nil
}

func selectToolchain(d platform.Descriptor) (Toolchain, error) {
	switch d.OS {
	case platform.Linux, platform.Macos:
		flags := []string{}
		if d.OS == platform.Macos && d.Compiler == platform.AppleClang {
			flags = append(flags, "--disable-mac-universal")
		}
		return Autotools{ConfigureFlags: flags}, nil
	case platform.Windows:
		return NativeBuild{Definitions: map[string]bool{
			"MSVS": d.Compiler == platform.VisualStudio,
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, d.OS)
	}
}

func buildManifest(d platform.Descriptor) (*manifest.Manifest, error) {
	m := &manifest.Manifest{}

	m.Add(manifest.Entry{
		Pattern:  manifest.CMakeModuleName,
		Category: manifest.CMakeModule,
		Src:      manifest.RootDir,
		Dst:      manifest.RootDir,
		Flatten:  true,
	})
	m.Add(manifest.Entry{
		Pattern:  "*.h",
		Category: manifest.Headers,
		Src:      srcPath("include"),
		Dst:      manifest.IncludeDir,
	})
	m.Add(manifest.Entry{
		Pattern:    "LICENSE*",
		Category:   manifest.License,
		Src:        manifest.SourcesDir,
		Dst:        manifest.LicensesDir,
		Flatten:    true,
		IgnoreCase: true,
	})

	libs := srcPath("lib", ".libs")
	shared := d.IsShared()

	switch d.OS {
	case platform.Windows:
		build := manifest.BuildDir
		if d.Compiler == platform.VisualStudio {
			libCategory := manifest.StaticLib
			if shared {
				libCategory = manifest.ImportLib
			}
			m.Add(manifest.Entry{Pattern: "*.lib", Category: libCategory, Src: build, Dst: manifest.LibDir, Flatten: true})
			if shared {
				m.Add(manifest.Entry{Pattern: "*.dll", Category: manifest.SharedLib, Src: build, Dst: manifest.BinDir, Flatten: true})
			}
			m.Add(manifest.Entry{Pattern: "*.pdb", Category: manifest.DebugSymbols, Src: build, Dst: manifest.BinDir, Flatten: true, Optional: true})
		} else if shared {
			m.Add(manifest.Entry{Pattern: "*.dll.a", Category: manifest.ImportLib, Src: build, Dst: manifest.LibDir, Flatten: true})
			m.Add(manifest.Entry{Pattern: "*.dll", Category: manifest.SharedLib, Src: build, Dst: manifest.BinDir, Flatten: true})
		} else {
			m.Add(manifest.Entry{Pattern: "*static.a", Category: manifest.StaticLib, Src: build, Dst: manifest.LibDir, Flatten: true})
		}
	case platform.Macos:
		if shared {
			m.Add(manifest.Entry{Pattern: "*.dylib", Category: manifest.SharedLib, Src: libs, Dst: manifest.LibDir})
		} else {
			m.Add(manifest.Entry{Pattern: "*.a", Category: manifest.StaticLib, Src: libs, Dst: manifest.LibDir})
		}
	case platform.Linux:
		if shared {
			m.Add(manifest.Entry{Pattern: "*.so*", Category: manifest.SharedLib, Src: libs, Dst: manifest.LibDir})
		} else {
			m.Add(manifest.Entry{Pattern: "*.a", Category: manifest.StaticLib, Src: libs, Dst: manifest.LibDir})
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, d.OS)
	}

	return m, nil
}

// BaseName returns the library name consumers link against
func BaseName(d platform.Descriptor) string {
	name := PackageName
	if d.OS != platform.Windows {
		return name
	}
	if !d.IsShared() {
		name += "_static"
	}
	if d.Compiler == platform.VisualStudio {
		if d.Arch == platform.ArchX86 {
			name += "_x86"
		} else {
			name += "_x64"
		}
	}
	return name
}

func packageInfo(d platform.Descriptor) (PackageInfo, error) {
	info := PackageInfo{
		BaseName: BaseName(d),
	}
	info.Libs = []string{info.BaseName}

	switch d.OS {
	case platform.Macos:
		for _, fw := range MacFrameworks {
			info.ExeLinkFlags = append(info.ExeLinkFlags, "-framework "+fw)
		}
	case platform.Windows:
		if d.Compiler == platform.GCC && !d.IsShared() {
			info.Libs = append(info.Libs, WindowsGCCStaticLibs...)
		}
	case platform.Linux:
		if !d.IsShared() {
			info.Libs = append(info.Libs, LinuxStaticLibs...)
		}
	default:
		return PackageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, d.OS)
	}

	return info, nil
}

func srcPath(elem ...string) string {
	return path.Join(append([]string{manifest.SourcesDir}, elem...)...)
}
