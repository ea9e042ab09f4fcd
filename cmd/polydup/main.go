package main

import (
	"os"

	"github.com/polydup/polydup/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "polydup",
	Short: "A multi-language code clone detector",
	Long: `polydup finds structurally similar functions across Python, Go,
JavaScript/TypeScript and Rust sources using the APTED (tree edit distance)
algorithm.

Features:
  • Multi-language clone detection with the APTED algorithm
  • Type-1 through Type-4 clone classification
  • Connected-component clone grouping
  • Text, JSON, YAML, CSV and HTML reports`,
	Version: version.Short(),
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	// Add main subcommands
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())

	// Add clone/compare command (uses a different construction pattern)
	addCloneCommand(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
