package cli

import (
	"strings"

	"codewerk/internal/model"

	"github.com/spf13/cobra"
)

func newGenerateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <text>",
		Short: "Generate a new code from text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := model.ValidateText(strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			mode, err := resolveMode(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			code, err := client.Generate(cmd.Context(), mode, text)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": code})
		},
	}
	return cmd
}
