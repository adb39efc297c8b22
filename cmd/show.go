// cmd/show.go
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/blogrank/internal/textnorm"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <blog-id>",
	Short: "Show details of a blog",
	Long:  `Display a blog with its metadata and the score breakdown for --user.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showUser string

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showUser, "user", "u", "", "Score for this reader")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid blog ID: %s", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(showUser)
	if err != nil {
		return err
	}

	scored, err := a.service().ScoreBlog(context.Background(), userID, id)
	if err != nil {
		return err
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("━", 70))

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(scored.Title))
	fmt.Println(divider)

	fmt.Printf("%s %s\n", labelStyle.Render("Author:"), valueStyle.Render(scored.Username))
	fmt.Printf("%s %s\n", labelStyle.Render("Created:"), valueStyle.Render(scored.CreatedAt.Format("2006-01-02 15:04")))
	status := "published"
	if !scored.Published {
		status = "draft"
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Status:"), valueStyle.Render(status))
	fmt.Printf("%s %d  %s %d\n", labelStyle.Render("Likes:"), scored.LikesCount, labelStyle.Render("Comments:"), scored.CommentCount)
	if len(scored.Tags) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Tags:"), valueStyle.Render(strings.Join(scored.Tags, ", ")))
	}
	if scored.SourceURL != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("URL:"), urlStyle.Render(scored.SourceURL))
	}

	fmt.Printf("\n%s\n", labelStyle.Render("SCORES:"))
	if showUser == "" {
		fmt.Printf("  Engagement: %.3f  → Total: %.3f (no reader given)\n", scored.Score.Engagement, scored.Score.Total)
	} else {
		fmt.Printf("  Content: %.3f  Engagement: %.3f  → Total: %.3f\n",
			scored.Score.Content, scored.Score.Engagement, scored.Score.Total)
	}

	fmt.Println()

	content := textnorm.PlainText(scored.Content)
	if r := []rune(content); len(r) > 500 {
		content = string(r[:500]) + "..."
	}
	if content != "" {
		fmt.Println(labelStyle.Render("PREVIEW:"))
		fmt.Println(valueStyle.Render(content))
	}

	return nil
}
