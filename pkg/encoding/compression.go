package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a supported compression algorithm, using the identifiers
// that appear in gRPC and Connect encoding headers.
type Algorithm string

const (
	Gzip     Algorithm = "gzip"
	Deflate  Algorithm = "deflate"
	Brotli   Algorithm = "br"
	Zstd     Algorithm = "zstd"
	Identity Algorithm = "identity"
)

// ErrUnsupportedAlgorithm indicates an algorithm outside the supported set.
var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// Decode decompresses data with the given algorithm. Identity returns the
// input unchanged. Deflate accepts both zlib-wrapped and raw streams, which
// implementations disagree about in the wild.
func Decode(algo Algorithm, data []byte) ([]byte, error) {
	switch algo {
	case Identity:
		return data, nil

	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil

	case Deflate:
		if r, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			out, err := io.ReadAll(r)
			r.Close()
			if err == nil {
				return out, nil
			}
		}
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return out, nil

	case Brotli:
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("brotli: %w", err)
		}
		return out, nil

	case Zstd:
		r, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer r.Close()
		out, err := r.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algo)
	}
}

// DecodeFirst tries each candidate algorithm in order and returns the first
// successful result. When every candidate fails, the last error is returned.
// An empty candidate list returns the input unchanged.
func DecodeFirst(data []byte, algos []Algorithm) ([]byte, error) {
	var lastErr error
	for _, algo := range algos {
		out, err := Decode(algo, data)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return data, nil
}
