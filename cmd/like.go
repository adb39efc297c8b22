package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <blog-id>",
	Short: "Like a blog, or remove an existing like",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var likeUser string

func init() {
	rootCmd.AddCommand(likeCmd)
	likeCmd.Flags().StringVarP(&likeUser, "user", "u", "", "Reader giving the like (required)")
	likeCmd.MarkFlagRequired("user")
}

func runLike(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid blog ID: %s", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(likeUser)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := a.blogs.ToggleLike(ctx, id, userID)
	if err != nil {
		return err
	}

	switch result.Kind {
	case blog.LikeAdded:
		fmt.Printf("Liked blog %d\n", id)
	case blog.LikeRemoved:
		fmt.Println(result.Message)
	}

	if count, err := a.blogs.LikesCount(ctx, id); err == nil {
		fmt.Printf("  Likes: %d\n", count)
	}
	return nil
}
