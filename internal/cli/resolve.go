// internal/cli/resolve.go
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the build plan for a platform",
	Long: `Resolve the toolchain, patches, artifact manifest and link metadata
for the target platform without building anything.

Examples:
  pkgrecipe resolve
  pkgrecipe resolve --os Windows --compiler "Visual Studio" --arch x86
  pkgrecipe resolve --os Linux --shared`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

// planView is the printable form of a build plan
type planView struct {
	Descriptor platform.Descriptor  `yaml:"descriptor"`
	Toolchain  toolchainView        `yaml:"toolchain"`
	Patches    []string             `yaml:"patches"`
	Manifest   []manifest.Entry     `yaml:"manifest"`
	Info       resolver.PackageInfo `yaml:"package_info"`
}

type toolchainView struct {
	Kind           string          `yaml:"kind"`
	ConfigureFlags []string        `yaml:"configure_flags,omitempty"`
	Definitions    map[string]bool `yaml:"definitions,omitempty"`
}

func newPlanView(plan *resolver.BuildPlan) planView {
	tv := toolchainView{Kind: plan.Toolchain.Kind()}
	switch tc := plan.Toolchain.(type) {
	case resolver.Autotools:
		tv.ConfigureFlags = tc.ConfigureFlags
	case resolver.NativeBuild:
		tv.Definitions = tc.Definitions
	}

	return planView{
		Descriptor: plan.Descriptor,
		Toolchain:  tv,
		Patches:    plan.PatchNames(),
		Manifest:   plan.Manifest.Entries,
		Info:       plan.Info,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	d, err := descriptorFromFlags(cmd)
	if err != nil {
		return err
	}

	plan, err := resolver.Resolve(d)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(newPlanView(plan))
}
