package cli

import "github.com/spf13/cobra"

func newLikeCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "like <postId>",
		Short: "Like a post, or remove your like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			res, err := a.api.ToggleLike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Liked {
				a.printf("Liked %s\n", args[0])
			} else {
				a.printf("Unliked %s\n", args[0])
			}
			return nil
		},
	}
}
