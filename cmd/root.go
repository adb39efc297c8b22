package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blogrank",
	Short: "Rank blog posts by reader interests",
	Long: `Blogrank stores blogs and reader interest profiles and orders
listings and searches by content relevance and engagement.

Typical flow: init → user add → interests set → add/import → list/search`,
}

func init() {
	rootCmd.Version = "0.1.0"
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
