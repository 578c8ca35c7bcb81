package cli

import (
	"github.com/spf13/cobra"
)

func newCodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Generated code commands",
	}
	cmd.AddCommand(newCodesListCmd(app))
	cmd.AddCommand(newCodesDeleteCmd(app))
	return cmd
}

func newCodesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated codes for the selected mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			mode, err := resolveMode(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			codes, err := client.ListCodes(cmd.Context(), mode)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": codes})
		},
	}
	return cmd
}

func newCodesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a generated code",
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
			if err := client.Delete(cmd.Context(), mode, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}
