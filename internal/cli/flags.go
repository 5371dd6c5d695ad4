// internal/cli/flags.go
package cli

import (
	"fmt"

	"github.com/arc-language/pkgrecipe/pkg/env"
	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/registry"
	"github.com/spf13/cobra"
)

var flagsExport bool

var flagsCmd = &cobra.Command{
	Use:   "flags [package-dir]",
	Short: "Print consumer compiler and linker flags for a package",
	Long: `Read index.toml from a built package and print the flags a consumer needs.

With --export the output is shell code:
  eval "$(pkgrecipe flags --export ./package)"`,
	Args: cobra.ExactArgs(1),
	RunE: runFlags,
}

func init() {
	flagsCmd.Flags().BoolVar(&flagsExport, "export", false, "print shell export statements")
}

func runFlags(cmd *cobra.Command, args []string) error {
	dir := args[0]

	entry, err := registry.New(dir).Load()
	if err != nil {
		return err
	}

	target, err := platform.ParseOS(entry.Settings["os"])
	if err != nil {
		return fmt.Errorf("package settings: %w", err)
	}

	flags := env.New(dir, target).Flags(entry)

	if flagsExport {
		fmt.Print(env.ShellExports(dir, flags))
		return nil
	}

	fmt.Printf("Package: %s %s\n", entry.Name, entry.Version)
	fmt.Printf("CFLAGS:  %s\n", flags.CFlags())
	fmt.Printf("LDFLAGS: %s\n", flags.LDFlags())
	return nil
}
