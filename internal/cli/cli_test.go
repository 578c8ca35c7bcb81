package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codewerk/internal/model"
)

// fakeBackend serves the generation API's wire shapes for CLI tests.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	barcode := map[string]any{
		"id": "bc-1", "text": "ABC",
		"barcode_image": "data:image/png;base64,iVBORw0KGgo=",
		"created_at":    "2024-05-01T10:00:00",
	}
	qrcode := map[string]any{
		"id": "qr-1", "text": "XYZ",
		"qrcode_image": "data:image/png;base64,iVBORw0KGgo=",
		"created_at":   "2024-05-02T11:00:00",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok", "status": "healthy"})
	})
	mux.HandleFunc("/api/barcodes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"barcodes": []any{barcode}})
	})
	mux.HandleFunc("/api/qrcodes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"qrcodes": []any{qrcode}})
	})
	mux.HandleFunc("/api/generate-barcode", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.TrimSpace(body.Text) == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Text darf nicht leer sein"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "bc-new", "text": body.Text,
			"barcode_image": "data:image/png;base64,iVBORw0KGgo=",
			"created_at":    "2024-05-03T12:00:00",
		})
	})
	mux.HandleFunc("/api/barcode/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/barcode/")
		if id != "bc-1" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Barcode nicht gefunden"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(barcode)
		case http.MethodDelete:
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustEnvelope(t *testing.T, stdout string) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("envelope missing data key: %v", env)
	}
	return env
}

func TestCodesListBarcode(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, stderr, err := runCLI(t, "--base-url", srv.URL, "codes", "list")
	if err != nil {
		t.Fatalf("codes list: %v\nstderr: %s", err, stderr)
	}
	env := mustEnvelope(t, stdout)
	xs, ok := env["data"].([]any)
	if !ok || len(xs) != 1 {
		t.Fatalf("data = %#v, want one barcode", env["data"])
	}
	first := xs[0].(map[string]any)
	if first["id"] != "bc-1" || first["text"] != "ABC" {
		t.Fatalf("first = %#v", first)
	}
	if !strings.HasPrefix(first["image"].(string), "data:image/png;base64,") {
		t.Fatalf("image not normalized: %#v", first["image"])
	}
}

func TestCodesListQRCodeMode(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "--mode", "qrcode", "codes", "list")
	if err != nil {
		t.Fatalf("codes list --mode qrcode: %v", err)
	}
	env := mustEnvelope(t, stdout)
	xs := env["data"].([]any)
	if len(xs) != 1 || xs[0].(map[string]any)["id"] != "qr-1" {
		t.Fatalf("data = %#v, want the qrcode record", env["data"])
	}
}

func TestGenerate(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "generate", "Hallo", "Welt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	env := mustEnvelope(t, stdout)
	data := env["data"].(map[string]any)
	if data["id"] != "bc-new" || data["text"] != "Hallo Welt" {
		t.Fatalf("data = %#v", data)
	}
}

func TestGenerateRejectsBlankTextLocally(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	// No backend: validation must fail before any request.
	_, stderr, err := runCLI(t, "--base-url", "http://127.0.0.1:0", "generate", "   ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(stderr, model.MsgTextRequired) {
		t.Fatalf("stderr = %q, want %q", stderr, model.MsgTextRequired)
	}
}

func TestGenerateRejectsTooLongTextLocally(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	_, stderr, err := runCLI(t, "--base-url", "http://127.0.0.1:0", "generate", strings.Repeat("x", model.MaxTextLength+1))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(stderr, model.MsgTextTooLong) {
		t.Fatalf("stderr = %q, want %q", stderr, model.MsgTextTooLong)
	}
}

func TestCodesDelete(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "codes", "delete", "bc-1")
	if err != nil {
		t.Fatalf("codes delete: %v", err)
	}
	env := mustEnvelope(t, stdout)
	if env["data"].(map[string]any)["deleted"] != "bc-1" {
		t.Fatalf("data = %#v", env["data"])
	}
}

func TestCodesDeleteSurfacesBackendDetail(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	_, stderr, err := runCLI(t, "--base-url", srv.URL, "codes", "delete", "missing")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(stderr, "Barcode nicht gefunden") {
		t.Fatalf("stderr = %q, want backend detail", stderr)
	}
}

func TestDownloadWritesPNG(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "--dir", dir, "download", "bc-1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	env := mustEnvelope(t, stdout)
	path := env["data"].(map[string]any)["path"].(string)
	if filepath.Base(path) != "barcode-ABC.png" {
		t.Fatalf("path = %q, want barcode-ABC.png", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
}

func TestDownloadFetchesSingleRecord(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	// Every stored code carries its full PNG payload, so download must hit
	// the single-record endpoint instead of pulling the whole list.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/barcodes", func(w http.ResponseWriter, r *http.Request) {
		t.Error("download must not fetch the full list")
		_ = json.NewEncoder(w).Encode(map[string]any{"barcodes": []any{}})
	})
	mux.HandleFunc("/api/barcode/bc-7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "bc-7", "text": "Solo",
			"barcode_image": "data:image/png;base64,iVBORw0KGgo=",
			"created_at":    "2024-05-01T10:00:00",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	stdout, _, err := runCLI(t, "--base-url", srv.URL, "--dir", dir, "download", "bc-7")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	env := mustEnvelope(t, stdout)
	path := env["data"].(map[string]any)["path"].(string)
	if filepath.Base(path) != "barcode-Solo.png" {
		t.Fatalf("path = %q", path)
	}
}

func TestDownloadUnknownID(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	_, stderr, err := runCLI(t, "--base-url", srv.URL, "--dir", t.TempDir(), "download", "nope")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(stderr, "Barcode nicht gefunden") {
		t.Fatalf("stderr = %q, want backend detail", stderr)
	}
}

func TestStatus(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	env := mustEnvelope(t, stdout)
	data := env["data"].(map[string]any)
	if data["status"] != "healthy" || data["baseUrl"] != srv.URL {
		t.Fatalf("data = %#v", data)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, "config", "set",
		"--base-url", "http://backend.local:8001/",
		"--default-mode", "qr",
		"--download-dir", "/tmp/codes")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	env := mustEnvelope(t, stdout)
	data := env["data"].(map[string]any)
	if data["baseUrl"] != "http://backend.local:8001" {
		t.Fatalf("baseUrl = %#v, want trailing slash trimmed", data["baseUrl"])
	}
	if data["defaultMode"] != "qrcode" {
		t.Fatalf("defaultMode = %#v, want normalized to qrcode", data["defaultMode"])
	}

	stdout, _, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	env = mustEnvelope(t, stdout)
	data = env["data"].(map[string]any)
	if data["downloadDir"] != "/tmp/codes" {
		t.Fatalf("downloadDir = %#v", data["downloadDir"])
	}
}

func TestConfigSetRejectsUnknownMode(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	_, stderr, err := runCLI(t, "config", "set", "--default-mode", "datamatrix")
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if !strings.Contains(stderr, "unknown mode") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestModeFlagRejectsUnknownMode(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())

	_, _, err := runCLI(t, "--base-url", "http://127.0.0.1:0", "--mode", "datamatrix", "codes", "list")
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestEDNOutput(t *testing.T) {
	t.Setenv("CODEWERK_CONFIG_DIR", t.TempDir())
	srv := fakeBackend(t)

	stdout, _, err := runCLI(t, "--base-url", srv.URL, "--format", "edn", "codes", "list")
	if err != nil {
		t.Fatalf("codes list --format edn: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout), "{:data") {
		t.Fatalf("stdout = %q, want EDN envelope", stdout)
	}
}
