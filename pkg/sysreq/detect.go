// pkg/sysreq/detect.go
package sysreq

import (
	"os"
	"os/exec"
	"strings"
)

// Tool is a host system package tool family
type Tool string

const (
	ToolNone Tool = ""
	ToolApt  Tool = "apt"
	ToolYum  Tool = "yum"
)

// DefaultOSRelease is where distributions describe themselves
const DefaultOSRelease = "/etc/os-release"

// Probe holds the host facts detection needs
type Probe struct {
	// OSRelease is the contents of /etc/os-release
	OSRelease string
	// LookPath is exec.LookPath in production
	LookPath func(file string) (string, error)
}

// HostProbe reads the probe inputs from the running system
func HostProbe() Probe {
	data, _ := os.ReadFile(DefaultOSRelease)
	return Probe{
		OSRelease: string(data),
		LookPath:  exec.LookPath,
	}
}

// DetectTool picks the package tool family of the host
func DetectTool(p Probe) Tool {
	content := strings.ToLower(p.OSRelease)

	if isDebianFamily(content) && p.has("apt-get") {
		return ToolApt
	}
	if isRedHatFamily(content) && (p.has("yum") || p.has("dnf")) {
		return ToolYum
	}

	// Unknown os-release, fall back to whatever is installed
	switch {
	case p.has("apt-get"):
		return ToolApt
	case p.has("yum"), p.has("dnf"):
		return ToolYum
	}
	return ToolNone
}

// yumBinary prefers yum, falling back to dnf on newer Fedora
func (p Probe) yumBinary() string {
	if p.has("yum") {
		return "yum"
	}
	return "dnf"
}

func (p Probe) has(cmd string) bool {
	if p.LookPath == nil {
		return false
	}
	_, err := p.LookPath(cmd)
	return err == nil
}

func isDebianFamily(content string) bool {
	return strings.Contains(content, "debian") || strings.Contains(content, "ubuntu")
}

func isRedHatFamily(content string) bool {
	return strings.Contains(content, "fedora") || strings.Contains(content, "rhel") || strings.Contains(content, "centos")
}
