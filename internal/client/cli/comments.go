package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCommentsCmd(app func() *App) *cobra.Command {
	comments := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
	}

	comments.AddCommand(&cobra.Command{
		Use:   "add <postId> <text>...",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			c, err := a.api.AddComment(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a.printf("Added comment %s\n", c.ID)
			return nil
		},
	})

	comments.AddCommand(&cobra.Command{
		Use:   "list <postId>",
		Short: "List comments on a post, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			list, err := a.api.ListComments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, c := range list {
				a.printf("%s  %s: %s\n", c.ID, c.UserName, c.Content)
			}
			return nil
		},
	})

	return comments
}
