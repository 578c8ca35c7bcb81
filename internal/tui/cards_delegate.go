package tui

import (
	"fmt"
	"io"
	"strings"

	"codewerk/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type codeItem struct {
	code model.GeneratedCode
	cfg  model.ModeConfig
}

func (i codeItem) FilterValue() string { return i.code.Text }
func (i codeItem) Title() string       { return i.code.Text }
func (i codeItem) Description() string { return i.code.ID }

func imageKindLabel(image string) string {
	switch {
	case strings.HasPrefix(image, "data:image/"):
		return "PNG eingebettet"
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return "Bild-URL"
	case strings.TrimSpace(image) == "":
		return "kein Bild"
	default:
		return "Bild"
	}
}

type cardDelegate struct {
	normalCard   lipgloss.Style
	selectedCard lipgloss.Style

	titleStyle lipgloss.Style
	metaStyle  lipgloss.Style
}

func newCodeCardDelegate() cardDelegate {
	base := lipgloss.NewStyle().
		Width(0). // Set per-render.
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Foreground(colorSurfaceFg)

	selected := lipgloss.NewStyle().
		Width(0).
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Foreground(colorSurfaceFg)

	return cardDelegate{
		normalCard:   base,
		selectedCard: selected,
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		metaStyle:    lipgloss.NewStyle().Foreground(ac("238", "250")),
	}
}

func (d cardDelegate) Height() int  { return 5 } // 3 inner lines + border top/bottom
func (d cardDelegate) Spacing() int { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	totalW := m.Width()
	if totalW < 12 {
		fmt.Fprint(w, "")
		return
	}

	selected := index == m.Index()
	card := d.normalCard
	if selected {
		card = d.selectedCard
	}
	frameW := card.GetHorizontalFrameSize()
	innerW := totalW - frameW
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	lines := make([]string, 0, 3)
	switch it := item.(type) {
	case codeItem:
		title := strings.TrimSpace(it.code.Text)
		if title == "" {
			title = "(ohne Text)"
		}
		lines = append(lines,
			d.titleStyle.Render(truncateToWidth(title, innerW)),
			d.metaStyle.Render(truncateToWidth("erstellt am "+formatCreatedAt(it.code.CreatedAt)+"  |  "+it.cfg.Label, innerW)),
			d.metaStyle.Render(truncateToWidth(it.code.ID+"  |  "+imageKindLabel(it.code.Image), innerW)),
		)
	default:
		txt := fmt.Sprint(item)
		lines = append(lines,
			d.titleStyle.Render(truncateToWidth(txt, innerW)),
			d.metaStyle.Render(""),
			d.metaStyle.Render(""),
		)
	}

	for i := 0; i < len(lines); i++ {
		lines[i] = padOrCutANSI(lines[i], innerW)
	}
	for len(lines) < 3 {
		lines = append(lines, strings.Repeat(" ", innerW))
	}
	body := strings.Join(lines, "\n")
	fmt.Fprint(w, card.Render(body))
}

func truncateToWidth(s string, w int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func padOrCutANSI(s string, w int) string {
	cur := xansi.StringWidth(s)
	switch {
	case cur < w:
		return s + strings.Repeat(" ", w-cur)
	case cur > w:
		return xansi.Cut(s, 0, w) + "\x1b[0m"
	default:
		return s
	}
}

func newCodesList(items []list.Item) list.Model {
	l := list.New(items, newCodeCardDelegate(), 0, 0)
	// The app renders its own header and footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("Code", "Codes")
	// The list defaults to quitting on ESC; here ESC returns focus to the input.
	l.KeyMap.Quit.SetKeys("q")
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}
