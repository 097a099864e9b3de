package contentview

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	scoreJSONHinted  float64 = 1.0
	scoreJSONGeneric float64 = 0.4
)

// JSONView re-indents valid JSON bodies.
type JSONView struct{}

// NewJSONView creates the JSON view.
func NewJSONView() *JSONView { return &JSONView{} }

// Name implements Contentview.
func (*JSONView) Name() string { return "json" }

// Score implements Contentview. Valid JSON scores highest when the content
// type corroborates it, lower when the body merely happens to parse.
func (*JSONView) Score(data []byte, md *Metadata) float64 {
	if len(data) == 0 || !json.Valid(data) {
		return ScoreNoMatch
	}
	if strings.Contains(md.contentTypeLower(), "json") {
		return scoreJSONHinted
	}
	return scoreJSONGeneric
}

// Render implements Contentview.
func (*JSONView) Render(data []byte, md *Metadata) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", &RenderError{View: "json", Cause: err}
	}
	return buf.String(), nil
}
