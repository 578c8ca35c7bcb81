package cli

import (
	"strings"

	"codewerk/internal/model"
	"codewerk/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Client configuration",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the persisted configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	var baseURL, defaultMode, downloadDir string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			changed := false
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
				changed = true
			}
			if cmd.Flags().Changed("default-mode") {
				mode, err := model.ParseMode(defaultMode)
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.DefaultMode = string(mode)
				changed = true
			}
			if cmd.Flags().Changed("download-dir") {
				cfg.DownloadDir = strings.TrimSpace(downloadDir)
				changed = true
			}
			if !changed {
				return cmd.Help()
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Backend base URL")
	cmd.Flags().StringVar(&defaultMode, "default-mode", "", "Default mode (barcode|qrcode)")
	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "Download directory")
	return cmd
}
