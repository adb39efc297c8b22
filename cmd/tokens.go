package cmd

import (
	"fmt"
	"strings"

	"github.com/julienpequegnot/blogrank/internal/textnorm"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <text>...",
	Short: "Show how text is normalized before scoring",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTokens,
}

var tokensRich bool

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVar(&tokensRich, "rich", false, "Flatten JSON block documents first")
}

func runTokens(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if tokensRich {
		text = textnorm.PlainText(text)
	}

	normalized := textnorm.Normalize(text)
	if normalized == "" {
		fmt.Println("(no tokens)")
		return nil
	}
	fmt.Println(normalized)
	return nil
}
