package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userEmail string

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd, userListCmd)
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.users.Add(strings.TrimSpace(args[0]), userEmail)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	fmt.Printf("Added user: %s (ID: %d)\n", u.Username, u.ID)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.users.List()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users yet. Add one with 'blogrank user add <name>'")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-4s  %-20s  %s", "#", "USERNAME", "EMAIL")))
	fmt.Println(strings.Repeat("─", 60))
	for _, u := range users {
		fmt.Printf(" %s  %-20s  %s\n", idStyle.Render(fmt.Sprintf("%-4d", u.ID)), u.Username, u.Email)
	}
	return nil
}
