// Package cli is the command-line entry point for inspecting and
// exercising the module and global-binding subsystem, built the way the
// teacher's own pkg/cmd assembles a cobra toolbox: a root command plus
// subcommands, persistent flags read via small Get* helpers.
package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "glyph",
	Short: "An inspector for the glyph module system.",
	Long:  "A small toolbox for constructing, resolving and inspecting glyph modules and bindings.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("glyph ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "print version and exit")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("depwarn", "warn", "deprecation diagnostic mode: off, warn, error")

	cobra.OnInitialize(func() {
		if rootCmd.PersistentFlags().Changed("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	})

	rootCmd.AddCommand(inspectCmd)
}
