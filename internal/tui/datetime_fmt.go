package tui

import (
	"strings"
	"time"
)

// formatCreatedAt renders the backend's RFC3339 timestamp the way the
// product's German UI shows it: "02.01.2006, 15:04 Uhr", in local time.
// Best-effort: unparseable input is shown raw rather than hidden.
func formatCreatedAt(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "—"
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", raw)
		if err != nil {
			return raw
		}
	}
	return t.Local().Format("02.01.2006, 15:04") + " Uhr"
}
