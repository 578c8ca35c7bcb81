package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSONEnvelope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, map[string]any{"data": []string{"a", "b"}}, "json", false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), `{"data":["a","b"]}`+"\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteJSONPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": 1}, "", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"data\": 1\n") {
		t.Fatalf("expected indented output, got %q", buf.String())
	}
}

func TestWriteEDNCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	payload := map[string]any{
		"data": []any{
			map[string]any{"id": "1", "text": "ABC", "done": true, "count": float64(2)},
		},
	}
	if err := Write(&buf, payload, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{:data [{:count 2 :done true :id "1" :text "ABC"}]}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteEDNStructUsesJSONTags(t *testing.T) {
	t.Parallel()

	type item struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	var buf bytes.Buffer
	if err := WriteEDN(&buf, item{ID: "x", Text: "y"}, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	if got, want := strings.TrimSpace(buf.String()), `{:id "x" :text "y"}`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, nil, "yaml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
