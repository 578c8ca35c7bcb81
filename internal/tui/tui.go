package tui

import (
	"codewerk/internal/api"
	"codewerk/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, mode model.Mode, downloadDir string) error {
	applyColorProfilePreference()
	m := newAppModel(client, client.BaseURL(), mode, downloadDir)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
