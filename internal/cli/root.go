package cli

import (
	"fmt"
	"os"
	"strings"

	"codewerk/internal/api"
	"codewerk/internal/format"
	"codewerk/internal/model"
	"codewerk/internal/store"
	"codewerk/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL     string
	Mode        string
	DownloadDir string
	PrettyJSON  bool
	Format      string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "codewerk",
		Short:        "Barcode/QR-Code generator client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  codewerk

  # Start directly in QR-Code mode
  codewerk qrcode

  # Scriptable commands
  codewerk codes list --mode barcode
  codewerk generate "Hallo Welt" --mode qrcode
  codewerk download bc-123 --dir ~/Downloads
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("CODEWERK_BASE_URL", ""), "Backend base URL (default: config, then "+api.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&app.Mode, "mode", envOr("CODEWERK_MODE", ""), "Code mode (barcode|qrcode; default: config, then barcode)")
	cmd.PersistentFlags().StringVar(&app.DownloadDir, "dir", "", "Download directory (default: config, then ~/Downloads)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CODEWERK_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newUICmd(app))
	cmd.AddCommand(newCodesCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newDownloadCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, err := newClient(app)
	if err != nil {
		return err
	}
	mode, err := resolveMode(app)
	if err != nil {
		return err
	}
	return tui.Run(client, mode, resolveDownloadDir(app))
}

// newClient resolves the backend address: flag/env first, then the persisted
// config, then the built-in default.
func newClient(app *App) (*api.Client, error) {
	baseURL := strings.TrimSpace(app.BaseURL)
	if baseURL == "" {
		cfg, err := store.LoadConfig()
		if err != nil {
			return nil, err
		}
		baseURL = cfg.BaseURL
	}
	return api.New(baseURL), nil
}

func resolveMode(app *App) (model.Mode, error) {
	s := strings.TrimSpace(app.Mode)
	if s == "" {
		if cfg, err := store.LoadConfig(); err == nil && cfg.DefaultMode != "" {
			s = cfg.DefaultMode
		}
	}
	if s == "" {
		return model.ModeBarcode, nil
	}
	return model.ParseMode(s)
}

func resolveDownloadDir(app *App) string {
	if d := strings.TrimSpace(app.DownloadDir); d != "" {
		return d
	}
	if cfg, err := store.LoadConfig(); err == nil && strings.TrimSpace(cfg.DownloadDir) != "" {
		return cfg.DownloadDir
	}
	return store.DefaultDownloadDir()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
