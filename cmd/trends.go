package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show trending tags",
	Long:  `Ranks the tags of published blogs by how many recent blogs use them.`,
	RunE:  runTrends,
}

var (
	trendsDays  int
	trendsLimit int
)

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().IntVar(&trendsDays, "days", 30, "Time window in days")
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "l", 10, "Maximum tags to show")
}

func runTrends(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	trends, err := a.service().TrendingTags(context.Background(), trendsDays, trendsLimit)
	if err != nil {
		return err
	}

	if len(trends) == 0 {
		fmt.Println("No tagged blogs found.")
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	fmt.Printf("\n%s (last %d days)\n\n", titleStyle.Render("TRENDING TAGS"), trendsDays)

	maxScore := trends[0].Score
	for i, trend := range trends {
		bar := strings.Repeat("█", int((trend.Score/maxScore)*20))
		fmt.Printf("%2d. %-20s %s %.1f (%d blogs, %d recent)\n",
			i+1,
			trend.Tag,
			barStyle.Render(bar),
			trend.Score,
			trend.Count,
			len(trend.RecentBlogs))
	}

	fmt.Println()
	return nil
}
