// cmd/list.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List blogs ranked for a reader",
	Long: `Ranks every stored blog by relevance to the reader's interests plus
engagement (recency, publication, likes). Without --user blogs are ranked by
engagement only.`,
	RunE: runList,
}

var (
	listUser      string
	listPage      int
	listSize      int
	listTags      string
	listPublished bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listUser, "user", "u", "", "Rank for this reader")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number")
	listCmd.Flags().IntVarP(&listSize, "size", "n", 0, "Page size (0 = configured default)")
	listCmd.Flags().StringVarP(&listTags, "tags", "t", "", "Only blogs with any of these comma separated tags")
	listCmd.Flags().BoolVar(&listPublished, "published", true, "Only published blogs")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(listUser)
	if err != nil {
		return err
	}

	page, err := a.service().Recommend(context.Background(), recommend.Request{
		UserID:        userID,
		Page:          listPage,
		PageSize:      listSize,
		PublishedOnly: listPublished,
		Tags:          blog.ParseTags(listTags),
	})
	if err != nil {
		return err
	}

	if page.Total == 0 {
		fmt.Println("No blogs found. Add some with 'blogrank add' or 'blogrank import <feed-url>'.")
		return nil
	}

	printRanking(page.Items, nil)
	printPageFooter(page)
	return nil
}

// printRanking renders ranked blogs as a table. extra, when set, prints a
// detail line under each row.
func printRanking(items []recommend.ScoredBlog, extra func(recommend.ScoredBlog) string) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	authorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-5s  %-10s  %-15s  %s", "#", "SCORE", "DATE", "AUTHOR", "TITLE")))
	fmt.Println(strings.Repeat("─", 100))

	for _, item := range items {
		author := truncate(item.Username, 15)
		title := truncate(item.Title, 55)
		if item.Degraded {
			title += warnStyle.Render(" *")
		}

		fmt.Printf(" %s  %s  %s  %s  %s\n",
			idStyle.Render(fmt.Sprintf("%-4d", item.ID)),
			scoreStyle.Render(fmt.Sprintf("%-5.3f", item.Score.Total)),
			dateStyle.Render(item.CreatedAt.Format("2006-01-02")),
			authorStyle.Render(fmt.Sprintf("%-15s", author)),
			title,
		)

		if extra != nil {
			if line := extra(item); line != "" {
				fmt.Printf("       %s\n", detailStyle.Render(line))
			}
		}
	}
}

func printPageFooter(page *recommend.Page) {
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fmt.Println(footer.Render(fmt.Sprintf("\nPage %d of %d (%d blogs, %d per page)", page.Page, max(page.TotalPages, 1), page.Total, page.Limit)))
	for _, item := range page.Items {
		if item.Degraded {
			fmt.Println(footer.Render("* scored on engagement only"))
			break
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
