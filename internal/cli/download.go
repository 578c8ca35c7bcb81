package cli

import (
	"codewerk/internal/download"
	"codewerk/internal/model"

	"github.com/spf13/cobra"
)

func newDownloadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Save a generated code's image as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			mode, err := resolveMode(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			code, err := client.Get(cmd.Context(), mode, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := download.SaveImage(cmd.Context(), resolveDownloadDir(app), model.Config(mode), code)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	}
	return cmd
}
