package cli

import (
	"context"

	"github.com/dmitrijs2005/gopherblog/internal/client/config"
	"github.com/spf13/cobra"
)

// AppFactory builds the App once flags are parsed.
type AppFactory func(ctx context.Context, cfg *config.Config) (*App, error)

type rootOptions struct {
	configPath string
	serverURL  string
	stateDir   string
}

// NewRootCommand assembles the blogctl command tree.
func NewRootCommand(factory AppFactory) *cobra.Command {
	var (
		opts rootOptions
		app  *App
	)

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Command-line client for the blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.serverURL != "" {
				cfg.ServerURL = opts.serverURL
			}
			if opts.stateDir != "" {
				cfg.StateDir = opts.stateDir
			}

			app, err = factory(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to JSON config file")
	pf.StringVarP(&opts.serverURL, "server", "s", "", "blog server base URL")
	pf.StringVar(&opts.stateDir, "state-dir", "", "directory for the local session database")

	get := func() *App { return app }

	root.AddCommand(
		newRegisterCmd(get),
		newLoginCmd(get),
		newLogoutCmd(get),
		newPostsCmd(get),
		newCommentsCmd(get),
		newLikeCmd(get),
		newUploadCmd(get),
	)
	return root
}
