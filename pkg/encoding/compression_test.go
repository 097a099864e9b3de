package encoding_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirelens/go-sdk/pkg/encoding"
)

var plaintext = []byte("the quick brown fox jumps over the lazy dog")

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecode_Gzip(t *testing.T) {
	out, err := encoding.Decode(encoding.Gzip, gzipped(t, plaintext))
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_DeflateZlibWrapped(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(plaintext)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := encoding.Decode(encoding.Deflate, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_DeflateRaw(t *testing.T) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(plaintext)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := encoding.Decode(encoding.Deflate, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_Brotli(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(plaintext)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := encoding.Decode(encoding.Brotli, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_Zstd(t *testing.T) {
	w, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := w.EncodeAll(plaintext, nil)
	require.NoError(t, w.Close())

	out, err := encoding.Decode(encoding.Zstd, compressed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_Identity(t *testing.T) {
	out, err := encoding.Decode(encoding.Identity, plaintext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := encoding.Decode(encoding.Algorithm("lzma"), plaintext)
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrUnsupportedAlgorithm)
}

func TestDecode_CorruptInput(t *testing.T) {
	for _, algo := range []encoding.Algorithm{encoding.Gzip, encoding.Deflate, encoding.Zstd} {
		_, err := encoding.Decode(algo, []byte{0xde, 0xad, 0xbe, 0xef})
		assert.Error(t, err, string(algo))
	}
}

func TestDecodeFirst(t *testing.T) {
	compressed := gzipped(t, plaintext)

	out, err := encoding.DecodeFirst(compressed, []encoding.Algorithm{encoding.Zstd, encoding.Gzip})
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)

	_, err = encoding.DecodeFirst([]byte{0xff, 0x00}, []encoding.Algorithm{encoding.Gzip, encoding.Zstd})
	assert.Error(t, err)

	// No candidates: input passes through untouched.
	out, err = encoding.DecodeFirst(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, compressed, out)
}

func TestPreferred(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    []encoding.Algorithm
	}{
		{
			name: "no headers uses default order",
			want: encoding.DefaultOrder(),
		},
		{
			name:    "grpc encoding",
			headers: map[string]string{"Grpc-Encoding": "gzip"},
			want:    []encoding.Algorithm{encoding.Gzip},
		},
		{
			name:    "comma separated list keeps order",
			headers: map[string]string{"Connect-Encoding": "zstd, gzip"},
			want:    []encoding.Algorithm{encoding.Zstd, encoding.Gzip},
		},
		{
			name:    "duplicates and case folded",
			headers: map[string]string{"Grpc-Encoding": "GZIP, gzip, br"},
			want:    []encoding.Algorithm{encoding.Gzip, encoding.Brotli},
		},
		{
			name:    "unsupported values filtered",
			headers: map[string]string{"Content-Encoding": "snappy, lz4"},
			want:    encoding.DefaultOrder(),
		},
		{
			name: "grpc header outranks content-encoding",
			headers: map[string]string{
				"Content-Encoding": "br",
				"Grpc-Encoding":    "zstd",
			},
			want: []encoding.Algorithm{encoding.Zstd, encoding.Brotli},
		},
		{
			name:    "identity is supported",
			headers: map[string]string{"Grpc-Encoding": "identity"},
			want:    []encoding.Algorithm{encoding.Identity},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, encoding.Preferred(h))
		})
	}
}
