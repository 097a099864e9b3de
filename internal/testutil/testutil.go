// Package testutil provides builders for hand-assembling protobuf wire
// payloads and gRPC/Connect frames in tests.
package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/encoding/protowire"
)

// AppendVarintField appends a varint field encoding to b.
func AppendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendFixed32Field appends a fixed32 field encoding to b.
func AppendFixed32Field(b []byte, num protowire.Number, v uint32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, v)
}

// AppendFixed64Field appends a fixed64 field encoding to b.
func AppendFixed64Field(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}

// AppendBytesField appends a length-delimited field encoding to b.
func AppendBytesField(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

// Frame wraps payload in a 5-byte flag/length header.
func Frame(flags byte, payload []byte) []byte {
	out := make([]byte, 0, 5+len(payload))
	out = append(out, flags)
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// Gzip compresses data with gzip.
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
