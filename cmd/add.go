// cmd/add.go
package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a blog",
	Long: `Adds a blog written by --author. Content comes from --content or --file
and may be plain text or a JSON block document.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addAuthor  string
	addContent string
	addFile    string
	addTags    string
	addImage   string
	addDraft   bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addAuthor, "author", "a", "", "Author username (required)")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Blog content")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "Read content from file")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma separated tags")
	addCmd.Flags().StringVar(&addImage, "image", "", "Main image URL")
	addCmd.Flags().BoolVar(&addDraft, "draft", false, "Save unpublished")
	addCmd.MarkFlagRequired("author")
}

func runAdd(cmd *cobra.Command, args []string) error {
	content := addContent
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		content = string(data)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	author, err := a.users.GetByUsername(addAuthor)
	if err != nil {
		return err
	}

	b, err := a.blogs.Add(author.ID, blog.NewBlog{
		Title:        args[0],
		Content:      content,
		Tags:         blog.ParseTags(addTags),
		Published:    !addDraft,
		MainImageURL: addImage,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added blog: %s (ID: %d)\n", b.Title, b.ID)
	if len(b.Tags) > 0 {
		fmt.Printf("  Tags: %v\n", b.Tags)
	}
	if !b.Published {
		fmt.Println("  Saved as draft")
	}
	return nil
}
