package cli

import (
	"bytes"

	"github.com/dmitrijs2005/gopherblog/internal/client/apiclient"
	"github.com/dmitrijs2005/gopherblog/internal/client/store"
	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/spf13/cobra"
)

// getPassword is swapped in tests.
var getPassword = readSecret

// newPassword asks twice and fails when the answers differ.
func (a *App) newPassword() ([]byte, error) {
	pw, err := getPassword(a.out, "Password")
	if err != nil {
		return nil, err
	}
	again, err := getPassword(a.out, "Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)
	if len(pw) == 0 || !bytes.Equal(pw, again) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

func newRegisterCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			username, err := promptRequired(a.reader, a.out, "Username")
			if err != nil {
				return err
			}
			email, err := promptRequired(a.reader, a.out, "Email")
			if err != nil {
				return err
			}
			password, err := a.newPassword()
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			res, err := a.api.Register(cmd.Context(), username, email, string(password))
			if err != nil {
				return err
			}
			if err := a.saveSession(cmd, res); err != nil {
				return err
			}
			a.printf("Registered and logged in as %s\n", res.User.UserName)
			return nil
		},
	}
}

func newLoginCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			email, err := promptRequired(a.reader, a.out, "Email")
			if err != nil {
				return err
			}
			password, err := getPassword(a.out, "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			res, err := a.api.Login(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}
			if err := a.saveSession(cmd, res); err != nil {
				return err
			}
			a.printf("Logged in as %s\n", res.User.UserName)
			return nil
		},
	}
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.session.Clear(cmd.Context()); err != nil {
				return err
			}
			a.api.SetTokens("", "")
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *App) saveSession(cmd *cobra.Command, res *apiclient.AuthResponse) error {
	sess := &store.Session{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}
	if res.User != nil {
		sess.UserID = res.User.ID
		sess.UserName = res.User.UserName
	}
	return a.session.Save(cmd.Context(), sess)
}
