package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"codewerk/internal/api"
	"codewerk/internal/download"
	"codewerk/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// codesAPI is the slice of the HTTP client the TUI needs. Tests swap in a
// fake; production passes *api.Client.
type codesAPI interface {
	ListCodes(ctx context.Context, mode model.Mode) ([]model.GeneratedCode, error)
	Generate(ctx context.Context, mode model.Mode, text string) (model.GeneratedCode, error)
	Delete(ctx context.Context, mode model.Mode, id string) error
}

var _ codesAPI = (*api.Client)(nil)

type appFocus int

const (
	focusInput appFocus = iota
	focusList
)

const requestTimeout = 15 * time.Second

type appModel struct {
	api         codesAPI
	baseURL     string
	downloadDir string

	mode model.Mode

	width  int
	height int

	focus appFocus
	input textinput.Model
	spin  spinner.Model

	codes     []model.GeneratedCode
	codesList list.Model

	loading    bool
	generating bool
	// loadSeq guards against a stale list response overwriting the codes of a
	// mode the user has since switched away from (or of a newer reload).
	loadSeq int

	errMsg    string
	status    string
	statusSeq int

	confirmActive bool
	confirmFocus  confirmModalFocus
	confirmTarget model.GeneratedCode

	showHelp bool

	debugLog *log.Logger
}

type codesLoadedMsg struct {
	mode  model.Mode
	seq   int
	codes []model.GeneratedCode
	err   error
}

type generatedMsg struct {
	mode model.Mode
	code model.GeneratedCode
	err  error
}

type deletedMsg struct {
	mode model.Mode
	id   string
	err  error
}

type downloadedMsg struct {
	path string
	err  error
}

type clipboardMsg struct {
	err error
}

type statusExpiredMsg struct {
	seq int
}

func newAppModel(client codesAPI, baseURL string, mode model.Mode, downloadDir string) appModel {
	m := appModel{
		api:         client,
		baseURL:     baseURL,
		downloadDir: downloadDir,
		mode:        mode,
		focus:       focusInput,
	}

	m.input = textinput.New()
	m.input.Placeholder = model.Config(mode).Placeholder
	m.input.CharLimit = model.MaxTextLength
	m.input.Width = 40
	m.input.Focus()

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.codesList = newCodesList(nil)

	if path := strings.TrimSpace(os.Getenv("CODEWERK_TUI_DEBUG_LOG")); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			m.debugLog = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
		}
	}

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		m.loadCodesCmd(m.mode, m.loadSeq),
	)
}

func (m appModel) debugf(format string, args ...any) {
	if m.debugLog != nil {
		m.debugLog.Printf(format, args...)
	}
}

func (m appModel) loadCodesCmd(mode model.Mode, seq int) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		codes, err := client.ListCodes(ctx, mode)
		return codesLoadedMsg{mode: mode, seq: seq, codes: codes, err: err}
	}
}

func (m appModel) generateCmd(mode model.Mode, text string) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		code, err := client.Generate(ctx, mode, text)
		return generatedMsg{mode: mode, code: code, err: err}
	}
}

func (m appModel) deleteCmd(mode model.Mode, id string) tea.Cmd {
	client := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Delete(ctx, mode, id)
		return deletedMsg{mode: mode, id: id, err: err}
	}
}

func (m appModel) downloadCmd(code model.GeneratedCode) tea.Cmd {
	dir := m.downloadDir
	cfg := model.Config(m.mode)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		path, err := download.SaveImage(ctx, dir, cfg, code)
		return downloadedMsg{path: path, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: copyToClipboard(text)}
	}
}

func (m *appModel) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// errorText maps an operation error to the German message the UI shows. A
// backend `detail` is surfaced verbatim; anything else gets the fallback.
func errorText(err error, fallback string) string {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if apiErr := api.AsAPIError(err); apiErr != nil && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return fallback
}

func (m *appModel) syncList() {
	cfg := model.Config(m.mode)
	items := make([]list.Item, 0, len(m.codes))
	for _, c := range m.codes {
		items = append(items, codeItem{code: c, cfg: cfg})
	}
	m.codesList.SetItems(items)
}

func (m *appModel) switchMode(mode model.Mode) tea.Cmd {
	if mode == m.mode {
		return nil
	}
	m.debugf("switch mode %s -> %s", m.mode, mode)
	m.mode = mode
	m.errMsg = ""
	m.codes = nil
	m.input.SetValue("")
	m.input.Placeholder = model.Config(mode).Placeholder
	m.syncList()
	m.loading = true
	m.loadSeq++
	return m.loadCodesCmd(mode, m.loadSeq)
}

func (m *appModel) reload() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	m.loadSeq++
	return m.loadCodesCmd(m.mode, m.loadSeq)
}

func (m *appModel) submitGenerate() tea.Cmd {
	if m.generating {
		return nil
	}
	text, err := model.ValidateText(m.input.Value())
	if err != nil {
		m.errMsg = errorText(err, model.Config(m.mode).ErrGenerate)
		return nil
	}
	m.errMsg = ""
	m.generating = true
	return m.generateCmd(m.mode, text)
}

func (m appModel) selectedCode() (model.GeneratedCode, bool) {
	it, ok := m.codesList.SelectedItem().(codeItem)
	if !ok {
		return model.GeneratedCode{}, false
	}
	return it.code, true
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(20, minInt(msg.Width-6, 72))
		m.codesList.SetSize(msg.Width, maxInt(5, msg.Height-m.chromeHeight()))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case codesLoadedMsg:
		if msg.seq != m.loadSeq || msg.mode != m.mode {
			m.debugf("drop stale list response (seq %d, mode %s)", msg.seq, msg.mode)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.debugf("list %s: %v", msg.mode, msg.err)
			m.errMsg = errorText(msg.err, model.Config(m.mode).ErrLoad)
			return m, nil
		}
		m.errMsg = ""
		m.codes = msg.codes
		m.syncList()
		return m, nil

	case generatedMsg:
		m.generating = false
		if msg.mode != m.mode {
			// The user switched modes mid-flight; a new record belongs to the
			// other family's list and will show up on its next load, and an
			// error would be misleading on this screen.
			m.debugf("drop cross-mode generate result (%s): %v", msg.mode, msg.err)
			return m, nil
		}
		if msg.err != nil {
			m.debugf("generate %s: %v", msg.mode, msg.err)
			m.errMsg = errorText(msg.err, model.Config(msg.mode).ErrGenerate)
			return m, nil
		}
		m.errMsg = ""
		m.input.SetValue("")
		m.codes = append([]model.GeneratedCode{msg.code}, m.codes...)
		m.syncList()
		m.codesList.Select(0)
		return m, m.setStatus(model.Config(m.mode).Label + " erstellt.")

	case deletedMsg:
		if msg.err != nil {
			m.debugf("delete %s %s: %v", msg.mode, msg.id, msg.err)
			m.errMsg = errorText(msg.err, model.Config(msg.mode).ErrDelete)
			return m, nil
		}
		if msg.mode == m.mode {
			kept := make([]model.GeneratedCode, 0, len(m.codes))
			for _, c := range m.codes {
				if c.ID != msg.id {
					kept = append(kept, c)
				}
			}
			m.codes = kept
			m.syncList()
		}
		return m, m.setStatus(model.Config(msg.mode).Label + " gelöscht.")

	case downloadedMsg:
		if msg.err != nil {
			m.errMsg = "Download fehlgeschlagen: " + msg.err.Error()
			return m, nil
		}
		return m, m.setStatus("Gespeichert: " + msg.path)

	case clipboardMsg:
		if msg.err != nil {
			return m, m.setStatus("Kopieren fehlgeschlagen.")
		}
		return m, m.setStatus("Text kopiert.")

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
		}
		return m, nil
	}

	if m.confirmActive {
		return m.updateConfirmKey(msg)
	}

	switch msg.String() {
	case "tab":
		if m.focus == focusInput {
			m.focus = focusList
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	case "?":
		if m.focus == focusList && !m.codesList.SettingFilter() {
			m.showHelp = true
			return m, nil
		}
	}

	if m.focus == focusInput {
		switch msg.String() {
		case "enter":
			return m, m.submitGenerate()
		case "esc":
			if m.errMsg != "" {
				m.errMsg = ""
				return m, nil
			}
			m.focus = focusList
			m.input.Blur()
			return m, nil
		}
		return m.updateFocused(msg)
	}

	// List focus. Let the filter input win while it is being typed into.
	if !m.codesList.SettingFilter() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			if m.codesList.FilterState() == list.FilterApplied {
				break // let the list clear its filter
			}
			m.focus = focusInput
			m.input.Focus()
			return m, nil
		case "m":
			next := model.ModeQRCode
			if m.mode == model.ModeQRCode {
				next = model.ModeBarcode
			}
			return m, m.switchMode(next)
		case "r":
			return m, m.reload()
		case "d":
			if code, ok := m.selectedCode(); ok {
				return m, m.downloadCmd(code)
			}
			return m, nil
		case "c":
			if code, ok := m.selectedCode(); ok {
				return m, copyCmd(code.Text)
			}
			return m, nil
		case "x", "delete":
			if code, ok := m.selectedCode(); ok {
				m.confirmActive = true
				m.confirmFocus = confirmFocusCancel
				m.confirmTarget = code
			}
			return m, nil
		}
	}
	return m.updateFocused(msg)
}

func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.confirmActive = false
		return m, nil
	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusCancel {
			m.confirmFocus = confirmFocusConfirm
		} else {
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "y":
		m.confirmActive = false
		return m, m.deleteCmd(m.mode, m.confirmTarget.ID)
	case "enter":
		confirmed := m.confirmFocus == confirmFocusConfirm
		m.confirmActive = false
		if confirmed {
			return m, m.deleteCmd(m.mode, m.confirmTarget.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.codesList, cmd = m.codesList.Update(msg)
	return m, cmd
}

// chromeHeight is the number of screen lines the view spends outside the list.
func (m appModel) chromeHeight() int {
	return 8 // header(2) + mode row(1) + input row(1) + gap(1) + banner(1) + gap(1) + footer(1)
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			renderModalBox(m.width, "Hilfe", renderMarkdown(helpMarkdown, modalBodyWidth(m.width)-2)))
	}

	cfg := model.Config(m.mode)

	header := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(cfg.Title) +
		"  " + styleMuted().Render(m.baseURL)

	body := strings.Join([]string{
		header,
		"",
		m.renderModeRow(),
		m.renderInputRow(),
		"",
		m.renderBanner(),
		"",
		m.codesList.View(),
		m.renderFooter(),
	}, "\n")

	if m.confirmActive {
		modal := renderConfirmModal(
			m.width,
			cfg.Label+" löschen?",
			fmt.Sprintf("„%s“ wird dauerhaft gelöscht.", truncateToWidth(m.confirmTarget.Text, modalBodyWidth(m.width)-6)),
			"Löschen",
			"Abbrechen",
			m.confirmFocus,
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	return body
}

func (m appModel) renderModeRow() string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorAccentFg).
		Background(colorAccent).
		Bold(true)

	parts := make([]string, 0, len(model.Modes()))
	for _, mode := range model.Modes() {
		label := model.Config(mode).Label
		if mode == m.mode {
			parts = append(parts, btnActive.Render(label))
		} else {
			parts = append(parts, btnBase.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m appModel) renderInputRow() string {
	row := m.input.View()
	if m.generating {
		row += "  " + m.spin.View() + styleMuted().Render("erstellt…")
	}
	return row
}

func (m appModel) renderBanner() string {
	switch {
	case m.errMsg != "":
		return styleError().Render(truncateToWidth(m.errMsg, m.width))
	case m.loading:
		return m.spin.View() + styleMuted().Render("lädt…")
	case m.status != "":
		return styleMuted().Render(truncateToWidth(m.status, m.width))
	case len(m.codes) == 0:
		return styleMuted().Render(model.Config(m.mode).EmptyNotice)
	default:
		return ""
	}
}

func (m appModel) renderFooter() string {
	var help string
	if m.focus == focusInput {
		help = "enter: Erstellen   tab: Liste   esc: Fehler ausblenden   ctrl+c: Beenden"
	} else {
		help = "m: Modus   d: Download   c: Kopieren   x: Löschen   r: Neu laden   /: Filtern   ?: Hilfe   q: Beenden"
	}
	return styleMuted().Render(truncateToWidth(help, m.width))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
