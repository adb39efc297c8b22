package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/blogrank/internal/config"
	"github.com/julienpequegnot/blogrank/internal/database"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize blogrank configuration and database",
	Long:  `Creates the ~/.blogrank directory (or $BLOGRANK_HOME) with config.yaml and SQLite database.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Created config at %s/config.yaml\n", dir)

	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	db.Close()
	fmt.Printf("Created database at %s\n", config.DBPath())

	fmt.Println("\nBlogrank initialized! Next steps:")
	fmt.Println("  blogrank user add <name>                 Create a reader or author")
	fmt.Println("  blogrank interests set <name> <topic>... Declare reading interests")
	fmt.Println("  blogrank import <feed-url>               Import blogs from a feed")
	fmt.Println("  blogrank list --user <name>              Show personalized ranking")

	return nil
}
