// internal/cli/sysreqs.go
package cli

import (
	"context"
	"fmt"

	"github.com/arc-language/pkgrecipe"
	"github.com/spf13/cobra"
)

var sysreqsInstall bool

var sysreqsCmd = &cobra.Command{
	Use:   "sysreqs",
	Short: "List or install the OS packages the build needs",
	Long: `List the system development packages (ALSA, JACK) the build needs
on this host. With --install they are installed through apt or yum.`,
	Args: cobra.NoArgs,
	RunE: runSysreqs,
}

func init() {
	sysreqsCmd.Flags().BoolVar(&sysreqsInstall, "install", false, "install the packages")
}

func runSysreqs(cmd *cobra.Command, args []string) error {
	d, err := descriptorFromFlags(cmd)
	if err != nil {
		return err
	}

	recipe, err := pkgrecipe.New(config)
	if err != nil {
		return err
	}

	if !sysreqsInstall {
		pkgs := recipe.SystemRequirements(d)
		if len(pkgs) == 0 {
			fmt.Printf("No system requirements for %s\n", d)
			return nil
		}
		for _, p := range pkgs {
			fmt.Println(p)
		}
		return nil
	}

	pkgs, err := recipe.InstallSystemRequirements(context.Background(), d)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Installed %d system packages\n", len(pkgs))
	return nil
}
