package download

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"codewerk/internal/model"
)

const fetchTimeout = 10 * time.Second

// maxNameLen keeps generated filenames comfortably under common filesystem
// limits even after the prefix and collision suffix are added.
const maxNameLen = 80

// SaveImage writes the code's image as a PNG into dir, named
// "{prefix}-{text}.png" after sanitizing the text. Data URIs are decoded
// locally; http(s) URLs are fetched. Existing files get a numeric suffix
// instead of being overwritten. Returns the written path.
func SaveImage(ctx context.Context, dir string, cfg model.ModeConfig, code model.GeneratedCode) (string, error) {
	data, err := imageBytes(ctx, code.Image)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := cfg.DownloadPrefix + "-" + SanitizeName(code.Text, code.ID)
	path, err := uniquePath(dir, name, ".png")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func imageBytes(ctx context.Context, image string) ([]byte, error) {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return nil, errors.New("code has no image")
	case strings.HasPrefix(image, "data:"):
		return decodeDataURI(image)
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return fetchImage(ctx, image)
	default:
		return nil, fmt.Errorf("unsupported image reference: %.32q", image)
	}
}

// decodeDataURI handles the backend's "data:image/png;base64,..." form.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errors.New("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if !strings.Contains(meta, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %q", meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return data, nil
}

func fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch image: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// SanitizeName turns free-form code text into a safe filename fragment,
// falling back to the id when nothing printable remains.
func SanitizeName(text, fallback string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		case unicode.IsSpace(r) || r == '/' || r == '\\' || r == ':':
			sb.WriteByte('-')
		}
	}
	name := strings.Trim(sb.String(), "-.")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = "code"
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = strings.Trim(string(runes[:maxNameLen]), "-.")
	}
	return name
}

func uniquePath(dir, name, ext string) (string, error) {
	path := filepath.Join(dir, name+ext)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path, nil
	}
	for i := 2; i < 1000; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", name, i, ext))
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free filename for %s in %s", name, dir)
}
