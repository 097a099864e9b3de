package contentview

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Fallback scores. The raw view sits below every format-aware view so it is
// only chosen when nothing else applies; the hex view sits just above it for
// non-empty binary input.
const (
	scoreRaw float64 = 0.05
	scoreHex float64 = 0.1
)

// RawView renders a body as text verbatim, escaping invalid UTF-8 bytes.
// It applies to any input and is the registry's last-resort fallback.
type RawView struct{}

// NewRawView creates the raw text view.
func NewRawView() *RawView { return &RawView{} }

// Name implements Contentview.
func (*RawView) Name() string { return "raw" }

// Score implements Contentview.
func (*RawView) Score(data []byte, md *Metadata) float64 { return scoreRaw }

// Render implements Contentview. It never fails.
func (*RawView) Render(data []byte, md *Metadata) (string, error) {
	return lossyString(data), nil
}

// HexView renders a body as a canonical hex dump.
type HexView struct{}

// NewHexView creates the hex dump view.
func NewHexView() *HexView { return &HexView{} }

// Name implements Contentview.
func (*HexView) Name() string { return "hex" }

// Score implements Contentview.
func (*HexView) Score(data []byte, md *Metadata) float64 {
	if len(data) == 0 {
		return ScoreNoMatch
	}
	return scoreHex
}

// Render implements Contentview. It never fails.
func (*HexView) Render(data []byte, md *Metadata) (string, error) {
	return hex.Dump(data), nil
}

// hexPreviewLimit bounds hex previews of opaque bodies.
const hexPreviewLimit = 64

// hexPreview hex-encodes up to hexPreviewLimit bytes, marking truncation.
func hexPreview(b []byte) string {
	if len(b) <= hexPreviewLimit {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:hexPreviewLimit]) + "..."
}

// lossyString decodes bytes as UTF-8, replacing invalid bytes with \xHH
// escapes instead of dropping them.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, `\x%02x`, b[0])
		} else {
			sb.WriteRune(r)
		}
		b = b[size:]
	}
	return sb.String()
}
