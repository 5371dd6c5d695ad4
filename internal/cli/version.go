// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version of the pkgrecipe CLI
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pkgrecipe version %s\n", Version)
		fmt.Println("PortAudio build and packaging recipe")
		fmt.Println("https://github.com/arc-language/pkgrecipe")
	},
}
