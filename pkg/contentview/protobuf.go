package contentview

import (
	"math"
	"strings"

	"github.com/wirelens/go-sdk/internal/yamlutil"
)

// scoreProtobuf is the fixed confidence for hinted, parseable protobuf bodies.
const scoreProtobuf float64 = 0.7

// protobufCTHints are content-type fragments that suggest a protobuf body.
var protobufCTHints = []string{
	"application/protobuf",
	"application/x-protobuf",
	"application/grpc+proto",
	"application/connect+proto",
	"+proto",
	"/proto",
}

// ProtobufView decodes raw protobuf wire-format bytes without a schema.
//
// Length-delimited fields are classified heuristically as readable text,
// nested messages, or opaque binary; the rendering is a YAML field tree with
// every plausible typed interpretation of each value.
type ProtobufView struct {
	// Opts tunes recursion bounds; the zero value uses package defaults.
	Opts DecodeOptions
}

// NewProtobufView creates the schema-less protobuf view with default bounds.
func NewProtobufView() *ProtobufView { return &ProtobufView{} }

// Name implements Contentview.
func (*ProtobufView) Name() string { return "protobuf" }

// Score implements Contentview. It opts out unless the metadata hints at
// protobuf and a trial decode of the whole buffer succeeds.
func (v *ProtobufView) Score(data []byte, md *Metadata) float64 {
	if len(data) == 0 {
		return ScoreNoMatch
	}
	if !protobufHinted(md) {
		return ScoreNoMatch
	}
	if _, err := Decode(data, v.Opts); err != nil {
		return ScoreNoMatch
	}
	return scoreProtobuf
}

// Render implements Contentview.
func (v *ProtobufView) Render(data []byte, md *Metadata) (string, error) {
	fields, err := Decode(data, v.Opts)
	if err != nil {
		return "", err
	}
	doc := messageDoc{
		// Field names are not resolved; the reference is surfaced so users
		// can see which definitions are configured.
		ProtobufDefinitions: md.definitionsRef(),
		Fields:              fieldDocs(fields),
	}
	return yamlutil.Dump(doc), nil
}

// protobufHinted reports whether the metadata suggests a protobuf body,
// either via content type or configured definitions.
func protobufHinted(md *Metadata) bool {
	ct := md.contentTypeLower()
	for _, h := range protobufCTHints {
		if ct != "" && strings.Contains(ct, h) {
			return true
		}
	}
	return md.definitionsRef() != ""
}

// messageDoc is the rendered YAML document shape.
type messageDoc struct {
	ProtobufDefinitions string     `yaml:"protobuf_definitions,omitempty"`
	Fields              []fieldDoc `yaml:"fields"`
}

type nestedDoc struct {
	Fields []fieldDoc `yaml:"fields"`
}

// fieldDoc renders one field with all typed views applicable to its wire
// type. Pointers keep zero values visible while omitting inapplicable keys.
type fieldDoc struct {
	FieldTag int32  `yaml:"field_tag"`
	WireType string `yaml:"wire_type"`

	Varint *uint64 `yaml:"varint,omitempty"`
	Sint   *int64  `yaml:"sint,omitempty"`

	U32     *uint32  `yaml:"u32,omitempty"`
	S32     *int32   `yaml:"s32,omitempty"`
	Float32 *float32 `yaml:"float32,omitempty"`

	U64     *uint64  `yaml:"u64,omitempty"`
	S64     *int64   `yaml:"s64,omitempty"`
	Float64 *float64 `yaml:"float64,omitempty"`

	Length          *int       `yaml:"length,omitempty"`
	UTF8            *string    `yaml:"utf8,omitempty"`
	Message         *nestedDoc `yaml:"message,omitempty"`
	BytesHexPreview string     `yaml:"bytes_hex_preview,omitempty"`
}

func fieldDocs(fields []Field) []fieldDoc {
	docs := make([]fieldDoc, 0, len(fields))
	for _, f := range fields {
		d := fieldDoc{FieldTag: f.Tag, WireType: f.Type.String()}
		switch f.Type {
		case WireVarint:
			d.Varint = ptr(f.Uint)
			d.Sint = ptr(f.Sint)
		case WireFixed32:
			bits := uint32(f.Bits)
			d.U32 = ptr(bits)
			d.S32 = ptr(int32(bits))
			d.Float32 = ptr(math.Float32frombits(bits))
		case WireFixed64:
			d.U64 = ptr(f.Bits)
			d.S64 = ptr(int64(f.Bits))
			d.Float64 = ptr(math.Float64frombits(f.Bits))
		case WireLenDelimited:
			d.Length = ptr(f.Body.Len)
			switch f.Body.Kind {
			case BodyText:
				d.UTF8 = ptr(f.Body.Text)
			case BodyMessage:
				d.Message = &nestedDoc{Fields: fieldDocs(f.Body.Fields)}
			case BodyBinary:
				d.BytesHexPreview = f.Body.Preview
			}
		}
		docs = append(docs, d)
	}
	return docs
}

func ptr[T any](v T) *T { return &v }
