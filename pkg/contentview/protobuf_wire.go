package contentview

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// WireType identifies how a field's value is encoded on the wire.
type WireType int

// Wire types of the protobuf encoding. Group types are not supported and are
// treated as malformed input.
const (
	WireVarint WireType = iota
	WireFixed32
	WireFixed64
	WireLenDelimited
)

// String returns the wire type name used in rendered output.
func (t WireType) String() string {
	switch t {
	case WireVarint:
		return "varint"
	case WireFixed32:
		return "fixed32"
	case WireFixed64:
		return "fixed64"
	case WireLenDelimited:
		return "len_delimited"
	default:
		return fmt.Sprintf("wiretype(%d)", int(t))
	}
}

// BodyKind tags the interpretation chosen for a length-delimited field body.
// Exactly one interpretation is ever chosen per body.
type BodyKind int

const (
	// BodyText means the body decoded as readable UTF-8 text.
	BodyText BodyKind = iota

	// BodyMessage means the body parsed as a nested message.
	BodyMessage

	// BodyBinary means the body is opaque and only a hex preview is kept.
	BodyBinary
)

// Body is the classified payload of a length-delimited field.
type Body struct {
	Kind BodyKind

	// Len is the raw byte length of the body.
	Len int

	// Text is the decoded text, set only for BodyText.
	Text string

	// Fields is the nested field list, set only for BodyMessage.
	Fields []Field

	// Preview is a bounded hex preview, set only for BodyBinary.
	Preview string
}

// Field is one decoded wire-format field. The populated value views depend on
// Type: varints carry Uint and the ZigZag Sint, fixed widths carry the raw
// Bits, and length-delimited fields carry Body.
type Field struct {
	// Tag is the field number, unique only within its enclosing message.
	Tag int32

	Type WireType

	// Uint is the unsigned varint value.
	Uint uint64

	// Sint is the ZigZag-decoded signed view of Uint.
	Sint int64

	// Bits holds the raw little-endian bits of a fixed32/fixed64 value
	// (fixed32 occupies the low 32 bits).
	Bits uint64

	Body *Body
}

// Recursion bounds for nested-message classification. Inputs are untrusted;
// the caps guarantee termination regardless of how the bytes are crafted.
const (
	// DefaultMaxDepth is the default nesting depth cap.
	DefaultMaxDepth = 10

	// DefaultMaxNestedBytes is the default per-field body size cap for
	// attempting nested decoding.
	DefaultMaxNestedBytes = 8 << 20
)

// nestedTagCeiling is the largest field number considered plausible when
// deciding whether a body looks like a nested message.
const nestedTagCeiling = 16384

// DecodeOptions tunes the recursion bounds of schema-less decoding.
// The zero value selects the package defaults.
type DecodeOptions struct {
	// MaxDepth caps nested-message recursion depth.
	MaxDepth int

	// MaxNestedBytes caps the body size for which nested decoding is tried.
	MaxNestedBytes int
}

func (o DecodeOptions) withDefaults() DecodeOptions {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNestedBytes == 0 {
		o.MaxNestedBytes = DefaultMaxNestedBytes
	}
	return o
}

// Decode parses data as a schema-less protobuf message, returning the decoded
// field tree. It fails with ErrMalformedWireFormat unless the buffer parses as
// a sequence of valid field triples consuming it exactly.
func Decode(data []byte, opts DecodeOptions) ([]Field, error) {
	return decodeMessage(data, 0, opts.withDefaults())
}

// decodeMessage parses data as a sequence of tag/wire-type/value triples that
// consume the buffer exactly. Trailing garbage is a parse failure, not a
// truncation. depth tracks how many nested-message levels enclose this call.
func decodeMessage(data []byte, depth int, opts DecodeOptions) ([]Field, error) {
	var fields []Field
	total := len(data)
	for len(data) > 0 {
		off := total - len(data)
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: bad tag at offset %d", ErrMalformedWireFormat, off)
		}
		data = data[n:]

		f := Field{Tag: int32(num)}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: unterminated varint", ErrMalformedWireFormat, num)
			}
			data = data[n:]
			f.Type = WireVarint
			f.Uint = v
			f.Sint = protowire.DecodeZigZag(v)

		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: short fixed32", ErrMalformedWireFormat, num)
			}
			data = data[n:]
			f.Type = WireFixed32
			f.Bits = uint64(v)

		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: short fixed64", ErrMalformedWireFormat, num)
			}
			data = data[n:]
			f.Type = WireFixed64
			f.Bits = v

		case protowire.BytesType:
			body, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: length overruns buffer", ErrMalformedWireFormat, num)
			}
			data = data[n:]
			f.Type = WireLenDelimited
			f.Body = classifyBody(body, depth, opts)

		default:
			return nil, fmt.Errorf("%w: field %d: unsupported wire type %d", ErrMalformedWireFormat, num, typ)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// classifyBody picks exactly one interpretation for a length-delimited body,
// in deterministic order: readable text, then nested message, then hex
// preview. The final step never fails.
func classifyBody(body []byte, depth int, opts DecodeOptions) *Body {
	b := &Body{Len: len(body)}

	if s, ok := likelyText(body); ok {
		b.Kind = BodyText
		b.Text = s
		return b
	}

	canNest := depth < opts.MaxDepth && len(body) > 0 && len(body) <= opts.MaxNestedBytes
	if canNest && looksLikeMessage(body) {
		if fields, err := decodeMessage(body, depth+1, opts); err == nil {
			b.Kind = BodyMessage
			b.Fields = fields
			return b
		}
		// Recursion failed; fall through to the hex preview.
	}

	b.Kind = BodyBinary
	b.Preview = hexPreview(body)
	return b
}

// likelyText reports whether a body should be presented as UTF-8 text.
// Accepted: mostly printable text, JSON-shaped text, multi-line text, and
// JWT-shaped dotted tokens. Invalid UTF-8 disqualifies immediately.
func likelyText(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", true
	}
	if !utf8.Valid(body) {
		return "", false
	}
	s := string(body)

	total, printable := 0, 0
	for _, r := range s {
		total++
		if unicode.IsPrint(r) {
			printable++
		}
	}
	if float64(printable)/float64(total) >= 0.85 {
		return s, true
	}

	t := strings.TrimSpace(s)
	if (strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")) ||
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) {
		return s, true
	}

	if strings.ContainsAny(s, "\n\r") {
		return s, true
	}

	if jwtShaped(s) {
		return s, true
	}
	return "", false
}

// jwtShaped matches the three-segment base64url form of a JWT.
func jwtShaped(s string) bool {
	if strings.Count(s, ".") != 2 {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
				return false
			}
		}
	}
	return true
}

// looksLikeMessage is a conservative structural check: the bytes must scan as
// one complete level of valid field triples and contain at least one field
// with a plausibly small tag number. It deliberately accepts a body with a
// single plausible tag among implausible ones; existing captures depend on
// that behavior.
func looksLikeMessage(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	smallTags := 0
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return false
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType, protowire.Fixed32Type, protowire.Fixed64Type, protowire.BytesType:
			if n = protowire.ConsumeFieldValue(num, typ, data); n < 0 {
				return false
			}
		default:
			return false
		}
		data = data[n:]

		if num <= nestedTagCeiling {
			smallTags++
		}
	}
	return smallTags >= 1
}
