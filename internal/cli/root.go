// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/arc-language/pkgrecipe/pkg/core"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	config  *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pkgrecipe",
	Short: "PortAudio build and packaging recipe",
	Long: `pkgrecipe - PortAudio build and packaging recipe

Fetches a PortAudio release, applies platform patches, drives autotools or
CMake, and assembles include/, lib/, bin/ and licenses/ with link metadata.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pkgrecipe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addDescriptorFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sysreqsCmd)
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}
}
