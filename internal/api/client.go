package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codewerk/internal/model"
)

// DefaultBaseURL matches the backend's default bind address.
const DefaultBaseURL = "http://127.0.0.1:8001"

const requestTimeout = 10 * time.Second

// Client is a thin JSON client for the code generation service. All calls
// are single-attempt; retrying is left to the user.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// HealthResponse is the backend's liveness payload.
type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// wireCode is the backend's record shape. The image travels under a
// mode-specific key, so both are decoded and normalized afterwards.
type wireCode struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	BarcodeImage string `json:"barcode_image"`
	QRCodeImage  string `json:"qrcode_image"`
	CreatedAt    string `json:"created_at"`
}

func (w wireCode) toModel(cfg model.ModeConfig) model.GeneratedCode {
	image := w.BarcodeImage
	if cfg.ImageField == "qrcode_image" {
		image = w.QRCodeImage
	}
	if image == "" {
		// Tolerate the other family's field name; an image under the wrong
		// key is still better than a blank card.
		if w.BarcodeImage != "" {
			image = w.BarcodeImage
		} else {
			image = w.QRCodeImage
		}
	}
	return model.GeneratedCode{
		ID:        w.ID,
		Text:      w.Text,
		Image:     image,
		CreatedAt: w.CreatedAt,
	}
}

// ListCodes fetches all generated codes for the mode, newest first (backend
// order). A payload without the expected list key yields an empty slice.
func (c *Client) ListCodes(ctx context.Context, mode model.Mode) ([]model.GeneratedCode, error) {
	cfg := model.Config(mode)
	var payload map[string]json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, cfg.ListPath, nil, &payload); err != nil {
		return nil, err
	}
	raw, ok := payload[cfg.ListKey]
	if !ok {
		return []model.GeneratedCode{}, nil
	}
	var items []wireCode
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", cfg.ListKey, err)
	}
	out := make([]model.GeneratedCode, 0, len(items))
	for _, it := range items {
		out = append(out, it.toModel(cfg))
	}
	return out, nil
}

// Get fetches a single generated code by id. Unknown ids come back as a 404
// *APIError carrying the backend's detail message.
func (c *Client) Get(ctx context.Context, mode model.Mode, id string) (model.GeneratedCode, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.GeneratedCode{}, errors.New("id is required")
	}
	cfg := model.Config(mode)
	path := cfg.ItemPath + "/" + url.PathEscape(id)
	var resp wireCode
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return model.GeneratedCode{}, err
	}
	return resp.toModel(cfg), nil
}

// Generate asks the backend to encode text into a new code. The text must
// already be validated; it is sent as-is.
func (c *Client) Generate(ctx context.Context, mode model.Mode, text string) (model.GeneratedCode, error) {
	cfg := model.Config(mode)
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	var resp wireCode
	if err := c.doJSON(ctx, http.MethodPost, cfg.GeneratePath, body, &resp); err != nil {
		return model.GeneratedCode{}, err
	}
	return resp.toModel(cfg), nil
}

// Delete removes a generated code by id.
func (c *Client) Delete(ctx context.Context, mode model.Mode, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("id is required")
	}
	cfg := model.Config(mode)
	path := cfg.ItemPath + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Detail string `json:"detail"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
}

// APIError is a non-2xx response. Detail carries the backend's optional
// `detail` message and is surfaced verbatim in the UI when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return fmt.Sprintf("api error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

// AsAPIError unwraps err into an *APIError, or nil.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
