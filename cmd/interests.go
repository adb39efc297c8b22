package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/blogrank/internal/interest"
	"github.com/spf13/cobra"
)

var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "Manage a reader's interest profile",
	Long:  `Interests are free-text topics used to personalize listings and searches.`,
}

var interestsSetCmd = &cobra.Command{
	Use:   "set <username> <interest>...",
	Short: "Replace a user's interests",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runInterestsSet,
}

var interestsAddCmd = &cobra.Command{
	Use:   "add <username> <interest>",
	Short: "Add one interest",
	Args:  cobra.ExactArgs(2),
	RunE:  runInterestsAdd,
}

var interestsRemoveCmd = &cobra.Command{
	Use:   "remove <username> <interest>",
	Short: "Remove one interest",
	Args:  cobra.ExactArgs(2),
	RunE:  runInterestsRemove,
}

var interestsShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a user's interests",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterestsShow,
}

var interestsClearCmd = &cobra.Command{
	Use:   "clear <username>",
	Short: "Delete a user's interest profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterestsClear,
}

func init() {
	rootCmd.AddCommand(interestsCmd)
	interestsCmd.AddCommand(interestsSetCmd, interestsAddCmd, interestsRemoveCmd, interestsShowCmd, interestsClearCmd)
}

func runInterestsSet(cmd *cobra.Command, args []string) error {
	return withProfile(args[0], func(a *app, userID int64) (*interest.Profile, error) {
		return a.interests.Set(userID, args[1:])
	})
}

func runInterestsAdd(cmd *cobra.Command, args []string) error {
	return withProfile(args[0], func(a *app, userID int64) (*interest.Profile, error) {
		return a.interests.Add(userID, args[1])
	})
}

func runInterestsRemove(cmd *cobra.Command, args []string) error {
	return withProfile(args[0], func(a *app, userID int64) (*interest.Profile, error) {
		return a.interests.Remove(userID, args[1])
	})
}

func runInterestsShow(cmd *cobra.Command, args []string) error {
	return withProfile(args[0], func(a *app, userID int64) (*interest.Profile, error) {
		return a.interests.Get(userID)
	})
}

func runInterestsClear(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(args[0])
	if err != nil {
		return err
	}
	if err := a.interests.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete interests: %w", err)
	}

	fmt.Printf("Cleared interests for %s\n", args[0])
	return nil
}

func withProfile(username string, fn func(a *app, userID int64) (*interest.Profile, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(username)
	if err != nil {
		return err
	}

	p, err := fn(a, userID)
	if errors.Is(err, interest.ErrNotFound) {
		fmt.Printf("%s has no interests yet. Set some with 'blogrank interests set %s <topic>...'\n", username, username)
		return nil
	}
	if err != nil {
		return err
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Printf("%s %s\n", labelStyle.Render("Interests of"), username)
	if len(p.Interests) == 0 {
		fmt.Println("  (none)")
	}
	for _, s := range p.Interests {
		fmt.Printf("  • %s\n", tagStyle.Render(s))
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Updated:"), p.UpdatedAt.Format("2006-01-02 15:04"))
	if len(p.Interests) >= interest.MaxInterests {
		fmt.Println(labelStyle.Render(fmt.Sprintf("Profile is at the %d interest limit", interest.MaxInterests)))
	}
	return nil
}
