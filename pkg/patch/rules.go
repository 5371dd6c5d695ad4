// pkg/patch/rules.go
package patch

import (
	"fmt"
	"strings"

	"github.com/arc-language/pkgrecipe/pkg/platform"
)

const (
	// ConfigureScript is the autotools entry point in the source tree
	ConfigureScript = "configure"

	// CMakeLists is the native build descriptor used on Windows
	CMakeLists = "CMakeLists.txt"

	// LastKnownSDK is the newest SDK the upstream configure script probes for
	LastKnownSDK = "10.12"

	// MinDeploymentTarget is the version-min flag of the 10.12 branch, reused
	// by the appended branches
	MinDeploymentTarget = "-mmacosx-version-min=10.4"
)

// ExtraSDKs are probed after LastKnownSDK, oldest first
var ExtraSDKs = []string{"10.13", "10.14", "10.15"}

// Rules is every patch the recipe knows about, in application order
var Rules = []*Rule{
	MacSDKChain(),
	WindowsGCCOptions(),
}

// MacSDKChain appends SDK probes after the last known branch of the
// configure script's SDK detection chain and widens its error message.
func MacSDKChain() *Rule {
	anchor := sysrootLine(LastKnownSDK)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(anchor)
	b.WriteString("\n")
	for _, sdk := range ExtraSDKs {
		fmt.Fprintf(&b, "elif xcodebuild -version -sdk macosx%s Path >/dev/null 2>&1 ; then\n", sdk)
		fmt.Fprintf(&b, "                 mac_version_min=\"%s\"\n", MinDeploymentTarget)
		fmt.Fprintf(&b, "                 %s\n", sysrootLine(sdk))
	}

	newest := ExtraSDKs[len(ExtraSDKs)-1]

	return &Rule{
		Name: "mac-sdk-chain",
		File: ConfigureScript,
		When: func(d platform.Descriptor) bool {
			return d.OS == platform.Macos
		},
		Replacements: []Replacement{
			{Old: anchor, New: b.String()},
			{
				Old: fmt.Sprintf("Could not find 10.5 to %s SDK.", LastKnownSDK),
				New: fmt.Sprintf("Could not find 10.5 to %s SDK.", newest),
			},
		},
	}
}

// WindowsGCCOptions switches off the WDM/KS and WASAPI host APIs, which
// do not build with gcc on Windows.
func WindowsGCCOptions() *Rule {
	options := []struct{ name, doc string }{
		{"PA_USE_WDMKS", "Enable support for WDMKS"},
		{"PA_USE_WDMKS_DEVICE_INFO", "Use WDM/KS API for device info"},
		{"PA_USE_WASAPI", "Enable support for WASAPI"},
	}

	reps := make([]Replacement, 0, len(options))
	for _, o := range options {
		reps = append(reps, Replacement{
			Old: fmt.Sprintf("OPTION(%s \"%s\" ON)", o.name, o.doc),
			New: fmt.Sprintf("OPTION(%s \"%s\" OFF)", o.name, o.doc),
		})
	}

	return &Rule{
		Name: "windows-gcc-options",
		File: CMakeLists,
		When: func(d platform.Descriptor) bool {
			return d.OS == platform.Windows && d.Compiler == platform.GCC
		},
		Replacements: reps,
	}
}

func sysrootLine(sdk string) string {
	return fmt.Sprintf("mac_sysroot=\"-isysroot `xcodebuild -version -sdk macosx%s Path`\"", sdk)
}
