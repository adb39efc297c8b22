package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julienpequegnot/blogrank/internal/logging"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <blog-id> <interest>...",
	Short: "Score a blog against ad-hoc interests",
	Long: `Scores one blog against the interests given on the command line, without
touching any stored profile, and prints every step of the calculation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var scoreVerbose bool

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Show normalized documents")
}

func runScore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid blog ID: %s", args[0])
	}
	interests := args[1:]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := a.blogs.Get(context.Background(), id)
	if err != nil {
		return err
	}

	sc := a.scorer()
	breakdown, degraded := sc.Explain(interests, b.Document())

	fmt.Printf("Blog %d: %s\n", b.ID, b.Title)
	if scoreVerbose {
		log := logging.Component(a.log, "score")
		log.Info().Str("vectorizer", scorerOptions(a.cfg, log).Vectorizer.String()).Msg("scoring options")
		userDoc, blogDoc := sc.Documents(interests, b.Content, b.Title, b.Tags)
		fmt.Printf("  Interests:  %q\n", userDoc)
		fmt.Printf("  Blog text:  %q\n", blogDoc)
	}
	fmt.Printf("  Content:    %.4f\n", breakdown.Content)
	fmt.Printf("  Engagement: %.4f\n", breakdown.Engagement)
	fmt.Printf("  Total:      %.4f\n", breakdown.Total)
	if degraded {
		fmt.Println("  (scoring failed, engagement only)")
	}
	return nil
}
