package contentview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTrailer_JSON(t *testing.T) {
	out := renderTrailer(`{"grpc-status": 0, "grpc-message": "OK"}`)
	assert.Contains(t, out, "grpc-status: 0")
	assert.Contains(t, out, "grpc-message: OK")
}

func TestRenderTrailer_HeaderPairs(t *testing.T) {
	out := renderTrailer("grpc-status: 0\r\ngrpc-message: OK")
	assert.Contains(t, out, "grpc-status")
	assert.Contains(t, out, "grpc-message")
}

func TestRenderTrailer_RepeatedKeysMerge(t *testing.T) {
	out := renderTrailer("set-cookie: a=1\nset-cookie: b=2\nserver: envoy")
	// Repeated keys collapse into one entry with an ordered value list.
	assert.Equal(t, 1, strings.Count(out, "set-cookie:"))
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "b=2")
	assert.Contains(t, out, "server: envoy")
}

func TestRenderTrailer_NonHeaderLineVerbatim(t *testing.T) {
	text := "grpc-status: 0\nnot a header line"
	assert.Equal(t, text, renderTrailer(text))
}

func TestRenderTrailer_InvalidJSONFallsThrough(t *testing.T) {
	// JSON-shaped but unparseable, and also not header-shaped: verbatim.
	text := "{not json at all"
	assert.Equal(t, text, renderTrailer(text))
}
