package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/spf13/cobra"
)

func newPostsCmd(app func() *App) *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}
	posts.AddCommand(
		newPostsListCmd(app),
		newPostsShowCmd(app),
		newPostsCreateCmd(app),
		newPostsDeleteCmd(app),
	)
	return posts
}

func newPostsListCmd(app func() *App) *cobra.Command {
	var (
		limit, offset int
		userID        string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			list, err := a.api.ListPosts(cmd.Context(), limit, offset, userID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCOMMENTS\tLIKES")
			for _, p := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Title, p.UserName, p.CommentCount, p.LikeCount)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", common.DefaultPageSize, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of posts to skip")
	cmd.Flags().StringVar(&userID, "user", "", "only posts by this user ID")
	return cmd
}

func newPostsShowCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p, err := a.api.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			comments, err := a.api.ListComments(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			a.printf("%s\nby %s, %s\n\n%s\n", p.Title, p.UserName, p.CreatedAt.Format("2006-01-02 15:04"), p.Content)
			if p.Image != nil {
				a.printf("\nimage: %s\n", *p.Image)
			}
			a.printf("\n%d likes, %d comments\n", p.LikeCount, p.CommentCount)
			for _, c := range comments {
				a.printf("  [%s] %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.UserName, c.Content)
			}
			return nil
		},
	}
}

func newPostsCreateCmd(app func() *App) *cobra.Command {
	var title, content, image string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			var img *string
			if image != "" {
				img = &image
			}
			p, err := a.api.CreatePost(cmd.Context(), title, content, img)
			if err != nil {
				return err
			}
			a.printf("Created post %s\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post body")
	cmd.Flags().StringVar(&image, "image", "", "image URL, e.g. from 'blogctl upload'")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newPostsDeleteCmd(app func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts with its comments and likes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !yes {
				ok, err := confirm(a.reader, a.out, fmt.Sprintf("Delete post %s and all its comments and likes?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					a.printf("Aborted\n")
					return nil
				}
			}
			if err := a.api.DeletePost(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted post %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
