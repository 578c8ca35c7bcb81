package model

import (
	"fmt"
	"strings"
)

// Mode selects which code family the client talks to. The backend exposes the
// two families as parallel endpoint sets that only differ in paths and JSON
// field names, so everything mode-specific lives in ModeConfig.
type Mode string

const (
	ModeBarcode Mode = "barcode"
	ModeQRCode  Mode = "qrcode"
)

// MaxTextLength mirrors the backend limit; longer input is rejected locally
// before any request is made.
const MaxTextLength = 255

// Modes lists the supported modes in UI order.
func Modes() []Mode {
	return []Mode{ModeBarcode, ModeQRCode}
}

// ParseMode validates free-form mode input (flags, argv shortcuts).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "barcode":
		return ModeBarcode, nil
	case "qrcode", "qr", "qr-code":
		return ModeQRCode, nil
	default:
		return "", fmt.Errorf("unknown mode: %q (expected barcode or qrcode)", s)
	}
}

// GeneratedCode is a server-created record pairing input text with a rendered
// image (data URI or URL) and a creation timestamp. The ID is assigned by the
// backend; records are never mutated client-side.
type GeneratedCode struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}

// ModeConfig is the static per-mode record: endpoint paths, the JSON key the
// list payload uses, the field name carrying the image, and the
// German-localized display strings baked into the product.
type ModeConfig struct {
	Mode  Mode
	Title string
	Label string

	ListPath     string
	GeneratePath string
	// ItemPath is the single-record base path; get and delete append "/{id}".
	ItemPath   string
	ListKey    string
	ImageField string

	DownloadPrefix string

	Placeholder string
	EmptyNotice string
	ErrLoad     string
	ErrGenerate string
	ErrDelete   string
}

var modeConfigs = map[Mode]ModeConfig{
	ModeBarcode: {
		Mode:           ModeBarcode,
		Title:          "Barcode Generator",
		Label:          "Barcode",
		ListPath:       "/api/barcodes",
		GeneratePath:   "/api/generate-barcode",
		ItemPath:       "/api/barcode",
		ListKey:        "barcodes",
		ImageField:     "barcode_image",
		DownloadPrefix: "barcode",
		Placeholder:    "Text für den Barcode eingeben…",
		EmptyNotice:    "Noch keine Barcodes erstellt.",
		ErrLoad:        "Barcodes konnten nicht geladen werden.",
		ErrGenerate:    "Barcode konnte nicht erstellt werden.",
		ErrDelete:      "Barcode konnte nicht gelöscht werden.",
	},
	ModeQRCode: {
		Mode:           ModeQRCode,
		Title:          "QR-Code Generator",
		Label:          "QR-Code",
		ListPath:       "/api/qrcodes",
		GeneratePath:   "/api/generate-qrcode",
		ItemPath:       "/api/qrcode",
		ListKey:        "qrcodes",
		ImageField:     "qrcode_image",
		DownloadPrefix: "qrcode",
		Placeholder:    "Text für den QR-Code eingeben…",
		EmptyNotice:    "Noch keine QR-Codes erstellt.",
		ErrLoad:        "QR-Codes konnten nicht geladen werden.",
		ErrGenerate:    "QR-Code konnte nicht erstellt werden.",
		ErrDelete:      "QR-Code konnte nicht gelöscht werden.",
	},
}

// Config is total over the two modes; unknown values fall back to barcode so
// callers holding a Mode never need an error path.
func Config(m Mode) ModeConfig {
	if cfg, ok := modeConfigs[m]; ok {
		return cfg
	}
	return modeConfigs[ModeBarcode]
}

// Validation messages shown locally, without a network round trip.
const (
	MsgTextRequired = "Bitte zuerst einen Text eingeben."
	MsgTextTooLong  = "Der Text darf höchstens 255 Zeichen lang sein."
)

// ValidateText checks generate input the way the backend would, so obviously
// bad requests never leave the client. Returns the trimmed text.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Message: MsgTextRequired}
	}
	if len([]rune(trimmed)) > MaxTextLength {
		return "", &ValidationError{Message: MsgTextTooLong}
	}
	return trimmed, nil
}

// ValidationError is a local input error; it never corresponds to a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
