// internal/cli/build.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/arc-language/pkgrecipe"
	"github.com/spf13/cobra"
)

var (
	buildVersion    string
	buildWorkDir    string
	buildPackageDir string
	buildJobs       int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch, patch, build and package the library",
	Long: `Run the full pipeline: fetch, prepare, patch, build, collect,
verify and write-metadata. The first failing stage stops the build.

Examples:
  pkgrecipe build
  pkgrecipe build --shared --package-dir ./out
  pkgrecipe build --version master`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildVersion, "version", "", "upstream version to build (\"master\" clones git)")
	buildCmd.Flags().StringVar(&buildWorkDir, "work-dir", "", "directory for sources and build output")
	buildCmd.Flags().StringVar(&buildPackageDir, "package-dir", "", "directory to assemble the package in")
	buildCmd.Flags().IntVar(&buildJobs, "jobs", 0, "parallel build jobs (default: number of CPUs)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := descriptorFromFlags(cmd)
	if err != nil {
		return err
	}

	if buildVersion != "" {
		config.Version = buildVersion
	}
	if buildWorkDir != "" {
		config.WorkDir = buildWorkDir
	}
	if buildPackageDir != "" {
		config.PackageDir = buildPackageDir
	}
	if buildJobs > 0 {
		config.Jobs = buildJobs
	}

	recipe, err := pkgrecipe.New(config)
	if err != nil {
		return err
	}

	fmt.Printf("Building %s %s for %s\n", config.Name, config.Version, d)

	entry, res, err := recipe.Build(ctx, d)
	if err != nil {
		if res != nil {
			fmt.Fprintf(os.Stderr, "✗ Failed at stage %s (completed: %v)\n", res.Failed, res.Completed)
		}
		return err
	}

	fmt.Printf("✓ Packaged into %s in %s\n", config.PackageDir, res.Duration.Round(time.Millisecond))
	fmt.Printf("  Libs:  %v\n", entry.Libs)
	if len(entry.ExeLinkFlags) > 0 {
		fmt.Printf("  Flags: %v\n", entry.ExeLinkFlags)
	}
	return nil
}
