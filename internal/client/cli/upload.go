package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gopherblog/internal/filex"
	"github.com/spf13/cobra"
)

func newUploadCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			data, contentType, err := filex.ReadUpload(args[0])
			if err != nil {
				return err
			}
			if !strings.HasPrefix(contentType, "image/") {
				return fmt.Errorf("%s is %s, only images can be uploaded", args[0], contentType)
			}

			u, err := a.api.Upload(cmd.Context(), contentType, data)
			if err != nil {
				return err
			}
			a.printf("%s\n", u)
			return nil
		},
	}
}
