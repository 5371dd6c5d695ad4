// internal/cli/descriptor.go
package cli

import (
	"fmt"

	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/spf13/cobra"
)

var (
	flagOS        string
	flagCompiler  string
	flagArch      string
	flagBuildType string
	flagShared    bool
	flagFPIC      bool
)

func addDescriptorFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&flagOS, "os", "", "target os: Linux, Macos, Windows (default: host)")
	f.StringVar(&flagCompiler, "compiler", "", "compiler: gcc, clang, apple-clang, \"Visual Studio\" (default: host)")
	f.StringVar(&flagArch, "arch", "", "architecture: x86, x86_64, armv8 (default: host)")
	f.StringVar(&flagBuildType, "build-type", "Release", "build type: Release, Debug")
	f.BoolVar(&flagShared, "shared", false, "build a shared library")
	f.BoolVar(&flagFPIC, "fpic", true, "position independent code (ignored on Windows)")
}

// descriptorFromFlags starts from the host default and applies flags.
// Changing --os without --compiler picks that os's default compiler.
func descriptorFromFlags(cmd *cobra.Command) (platform.Descriptor, error) {
	d, err := platform.Detect()
	if err != nil {
		// Unknown host; flags must then name everything
		d = platform.Descriptor{BuildType: platform.Release, LinkMode: platform.Static, FPIC: true}
	}

	if flagOS != "" {
		os, err := platform.ParseOS(flagOS)
		if err != nil {
			return d, err
		}
		if os != d.OS && flagCompiler == "" {
			d.Compiler = defaultCompiler(os)
		}
		d.OS = os
	}
	if flagCompiler != "" {
		c, err := platform.ParseCompiler(flagCompiler)
		if err != nil {
			return d, err
		}
		d.Compiler = c
	}
	if flagArch != "" {
		a, err := platform.ParseArch(flagArch)
		if err != nil {
			return d, err
		}
		d.Arch = a
	}
	bt, err := platform.ParseBuildType(flagBuildType)
	if err != nil {
		return d, err
	}
	d.BuildType = bt

	d.LinkMode = platform.Static
	if flagShared {
		d.LinkMode = platform.Shared
	}
	d.FPIC = flagFPIC

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("descriptor %s: %w", d, err)
	}
	return d, nil
}

func defaultCompiler(os platform.OS) platform.Compiler {
	switch os {
	case platform.Macos:
		return platform.AppleClang
	case platform.Windows:
		return platform.VisualStudio
	default:
		return platform.GCC
	}
}
