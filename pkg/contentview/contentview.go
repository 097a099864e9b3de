package contentview

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ScoreNoMatch is the sentinel score meaning "do not use this view".
// Score implementations return it for any input they cannot handle.
const ScoreNoMatch float64 = -1

// Contentview renders a captured message body as human-readable text.
type Contentview interface {
	// Name returns the unique registry name of the view.
	Name() string

	// Score reports how confident the view is that it is the right renderer
	// for the given bytes. Higher is better; ScoreNoMatch opts out entirely.
	// Score must not panic and must not mutate its inputs.
	Score(data []byte, md *Metadata) float64

	// Render produces the textual rendering. A returned error means "this
	// view does not apply to these bytes" and is never fatal to the caller.
	Render(data []byte, md *Metadata) (string, error)
}

// Metadata carries the read-only request context a view may consult while
// scoring or rendering. All fields are optional; a nil *Metadata is valid.
type Metadata struct {
	// ContentType is the declared media type of the body, if any.
	ContentType string

	// ProtobufDefinitions is an opaque reference to configured .proto
	// definitions. It is surfaced in output but never interpreted.
	ProtobufDefinitions string

	// Header gives access to the captured message's HTTP headers.
	Header http.Header
}

// contentTypeLower returns the lower-cased content type, tolerating nil.
func (m *Metadata) contentTypeLower() string {
	if m == nil {
		return ""
	}
	return strings.ToLower(m.ContentType)
}

// headerGet returns the first value of the named header, tolerating nil.
func (m *Metadata) headerGet(name string) string {
	if m == nil || m.Header == nil {
		return ""
	}
	return m.Header.Get(name)
}

// definitionsRef returns the protobuf definitions reference, tolerating nil.
func (m *Metadata) definitionsRef() string {
	if m == nil {
		return ""
	}
	return m.ProtobufDefinitions
}

var log = logrus.WithField("component", "contentview")
