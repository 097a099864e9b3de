package contentview

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/wirelens/go-sdk/pkg/encoding"
)

// Frame flag bits. The compressed bit is shared by all protocol families;
// trailer marking differs between gRPC/gRPC-Web (bit 7) and Connect (bit 1).
const (
	flagCompressed byte = 0x01
	flagEndStream  byte = 0x02
	flagTrailer    byte = 0x80
)

// frameHeaderLen is one flag byte plus a 4-byte big-endian payload length.
const frameHeaderLen = 5

// Scores for the framed view: preferred over generic byte views whenever
// framing is plausible, and over the plain protobuf view when the content
// type corroborates framing.
const (
	scoreFramedHinted  float64 = 1.2
	scoreFramedGeneric float64 = 0.8
)

// grpcCTHints are content-type fragments that corroborate framed payloads.
var grpcCTHints = []string{
	"application/grpc",
	"application/grpc+proto",
	"application/grpc-web",
	"application/grpc-web+proto",
	"application/connect",
	"application/connect+proto",
	"application/protobuf",
	"application/x-protobuf",
	"+proto",
	"/proto",
}

type frameKind int

const (
	frameData frameKind = iota
	frameTrailer
	frameEndStream
)

func (k frameKind) String() string {
	switch k {
	case frameTrailer:
		return "trailer"
	case frameEndStream:
		return "endstream"
	default:
		return "data"
	}
}

// frame is one unwrapped length-prefixed unit.
type frame struct {
	flags   byte
	length  uint32
	payload []byte
}

// GRPCView unwraps gRPC / gRPC-Web / Connect framed payloads.
//
// Each frame is classified as data, trailer, or end-stream, decompressed if
// flagged, and rendered: data frames are delegated to the registry (preferring
// the protobuf view), trailer frames are rendered as structured text. Frame
// boundaries come purely from the 5-byte headers; a truncated final frame is
// dropped rather than failing the whole buffer.
type GRPCView struct {
	// Registry supplies sub-renderers for data frame payloads.
	Registry *Registry
}

// NewGRPCView creates the framed view delegating to the given registry.
func NewGRPCView(reg *Registry) *GRPCView { return &GRPCView{Registry: reg} }

// Name implements Contentview.
func (*GRPCView) Name() string { return "grpc" }

// Score implements Contentview. A lightweight structural check on the first
// header gates applicability; the content type only adjusts preference.
func (v *GRPCView) Score(data []byte, md *Metadata) float64 {
	if len(data) == 0 || !looksFramed(data) {
		return ScoreNoMatch
	}
	if framedHinted(md) {
		return scoreFramedHinted
	}
	return scoreFramedGeneric
}

// Render implements Contentview. It fails only when not a single frame can be
// parsed; every per-frame failure degrades to a lossy rendering instead.
func (v *GRPCView) Render(data []byte, md *Metadata) (string, error) {
	frames, err := parseFrames(data)
	if err != nil {
		return "", err
	}

	// Candidate decompression algorithms are negotiated once per call.
	algos := preferredAlgorithms(md)
	isConnect := strings.Contains(md.contentTypeLower(), "application/connect")

	parts := make([]string, 0, len(frames))
	for i, fr := range frames {
		kind := frameData
		if isConnect {
			if fr.flags&flagEndStream != 0 {
				kind = frameEndStream
			}
		} else if fr.flags&flagTrailer != 0 {
			kind = frameTrailer
		}
		compressed := fr.flags&flagCompressed != 0

		header := fmt.Sprintf("frame %d: %s, flags=0x%02x, compressed=%t, length=%d",
			i+1, kind, fr.flags, compressed, fr.length)

		body := fr.payload
		if compressed {
			if out, derr := encoding.DecodeFirst(body, algos); derr == nil {
				body = out
			} else {
				// Keep the compressed bytes; rendering proceeds on them.
				log.WithField("frame", i+1).Debugf("decompression failed: %v", derr)
			}
		}

		if kind != frameData {
			parts = append(parts, header+"\n"+renderTrailer(lossyString(body)))
			continue
		}

		header += fmt.Sprintf(", uncompressed_length=%d", len(body))
		parts = append(parts, header+"\n"+v.renderData(body, md))
	}

	sep := "\n\n" + strings.Repeat("-", 40) + "\n\n"
	return strings.Join(parts, sep), nil
}

// renderData delegates one data frame payload to a sub-renderer: the named
// protobuf view when registered, else the best match. A failed render is
// retried via best match; a second failure yields a hex preview so the frame
// is never lost.
func (v *GRPCView) renderData(body []byte, md *Metadata) string {
	if v.Registry == nil {
		return "bytes_hex_preview: " + hexPreview(body)
	}

	sub, err := v.Registry.Get("protobuf")
	if err != nil {
		sub = v.Registry.BestMatch(body, md)
	}
	rendered, rerr := sub.Render(body, md)
	if rerr == nil {
		return rendered
	}
	log.WithField("view", sub.Name()).Debugf("sub-render failed: %v", rerr)

	fallback := v.Registry.BestMatch(body, md)
	rendered, rerr = fallback.Render(body, md)
	if rerr == nil {
		return rendered
	}
	log.WithField("view", fallback.Name()).Debugf("fallback render failed: %v", rerr)
	return "bytes_hex_preview: " + hexPreview(body)
}

// parseFrames scans length-prefixed frames from the start of the buffer.
// Scanning stops at the first header whose declared length overruns the
// remaining bytes; frames parsed before that point are kept.
func parseFrames(data []byte) ([]frame, error) {
	var frames []frame
	pos := 0
	for pos+frameHeaderLen <= len(data) {
		flags := data[pos]
		length := binary.BigEndian.Uint32(data[pos+1 : pos+frameHeaderLen])
		pos += frameHeaderLen
		if uint64(pos)+uint64(length) > uint64(len(data)) {
			break
		}
		frames = append(frames, frame{
			flags:   flags,
			length:  length,
			payload: data[pos : pos+int(length)],
		})
		pos += int(length)
	}
	if len(frames) == 0 {
		return nil, ErrNotFramedMessage
	}
	return frames, nil
}

// looksFramed checks the first header only: the declared length must fit the
// buffer and the flag byte must match an expected pattern (0x00/0x01 data,
// 0x02 Connect end-stream, or bit 7 trailers).
func looksFramed(data []byte) bool {
	if len(data) < frameHeaderLen {
		return false
	}
	flags := data[0]
	length := binary.BigEndian.Uint32(data[1:frameHeaderLen])
	if uint64(frameHeaderLen)+uint64(length) > uint64(len(data)) {
		return false
	}
	if low := flags & 0x7f; low == 0x00 || low == 0x01 || low == 0x02 {
		return true
	}
	return flags&flagTrailer != 0
}

func framedHinted(md *Metadata) bool {
	ct := md.contentTypeLower()
	if ct == "" {
		return false
	}
	for _, h := range grpcCTHints {
		if strings.Contains(ct, h) {
			return true
		}
	}
	return false
}

// preferredAlgorithms builds the ordered candidate list from the headers the
// gRPC and Connect ecosystems use, falling back to a conservative default.
func preferredAlgorithms(md *Metadata) []encoding.Algorithm {
	if md == nil {
		return encoding.DefaultOrder()
	}
	return encoding.Preferred(md.Header)
}
