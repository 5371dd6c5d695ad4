// pkg/sysreq/sysreq.go
package sysreq

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/toolchain"
)

// Requirements returns the OS packages needed to build d on a host with
// hostArch (Go's GOARCH naming). Only Linux has requirements.
func Requirements(d platform.Descriptor, tool Tool, hostArch string) []string {
	if d.OS != platform.Linux {
		return nil
	}

	cross32 := d.Arch == platform.ArchX86 && hostArch == "amd64"

	switch tool {
	case ToolApt:
		suffix := ""
		var pkgs []string
		if cross32 {
			suffix = ":i386"
			pkgs = append(pkgs, "g++-multilib")
		}
		return append(pkgs, "libasound2-dev"+suffix, "libjack-dev"+suffix)
	case ToolYum:
		suffix := ""
		var pkgs []string
		if cross32 {
			suffix = ".i686"
			pkgs = append(pkgs, "glibmm24.i686", "glibc-devel.i686")
		}
		return append(pkgs, "alsa-lib-devel"+suffix, "jack-audio-connection-kit-devel"+suffix)
	default:
		return nil
	}
}

// Installer installs OS packages through the host tool
type Installer struct {
	Runner  toolchain.Runner
	Probe   Probe
	UseSudo bool
	Logger  *log.Logger
}

// Commands returns the install invocations, one per package, in order
func (i *Installer) Commands(tool Tool, pkgs []string) ([]toolchain.Command, error) {
	if len(pkgs) == 0 {
		return nil, nil
	}

	var bin string
	switch tool {
	case ToolApt:
		bin = "apt-get"
	case ToolYum:
		bin = i.Probe.yumBinary()
	default:
		return nil, fmt.Errorf("no supported system package tool found")
	}

	cmds := make([]toolchain.Command, 0, len(pkgs))
	for _, p := range pkgs {
		args := []string{"install", "-y", p}
		name := bin
		if i.UseSudo {
			args = append([]string{bin}, args...)
			name = "sudo"
		}
		cmds = append(cmds, toolchain.Command{Name: name, Args: args})
	}
	return cmds, nil
}

// Install installs the requirements for d and returns the package list
func (i *Installer) Install(ctx context.Context, d platform.Descriptor, hostArch string) ([]string, error) {
	logger := i.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	tool := DetectTool(i.Probe)
	pkgs := Requirements(d, tool, hostArch)
	if len(pkgs) == 0 {
		logger.Printf("No system requirements for %s", d)
		return nil, nil
	}

	cmds, err := i.Commands(tool, pkgs)
	if err != nil {
		return nil, err
	}

	for _, cmd := range cmds {
		logger.Printf("Running: %s", cmd)
		if err := i.Runner.Run(ctx, cmd); err != nil {
			return nil, err
		}
	}

	logger.Printf("✓ Installed %d system packages via %s", len(pkgs), tool)
	return pkgs, nil
}
