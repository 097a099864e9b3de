package encoding

import (
	"net/http"
	"strings"
)

// negotiationHeaders are consulted in fixed priority order:
// gRPC first, the two Connect variants implementations use, then the plain
// HTTP header as a defensive fallback.
var negotiationHeaders = []string{
	"grpc-encoding",
	"connect-encoding",
	"connect-content-encoding",
	"content-encoding",
}

var supported = map[Algorithm]bool{
	Gzip:     true,
	Deflate:  true,
	Brotli:   true,
	Zstd:     true,
	Identity: true,
}

// DefaultOrder is the conservative candidate order used when headers name no
// supported algorithm.
func DefaultOrder() []Algorithm {
	return []Algorithm{Gzip, Brotli, Zstd, Deflate}
}

// Preferred derives the ordered list of candidate algorithms from the given
// headers. Header values may be comma-separated lists; entries are trimmed,
// lower-cased, de-duplicated preserving first-seen order, and filtered to the
// supported set. An empty result falls back to DefaultOrder.
func Preferred(h http.Header) []Algorithm {
	var algos []Algorithm
	seen := make(map[Algorithm]bool)
	if h != nil {
		for _, name := range negotiationHeaders {
			val := h.Get(name)
			if val == "" {
				continue
			}
			for _, part := range strings.Split(val, ",") {
				algo := Algorithm(strings.ToLower(strings.TrimSpace(part)))
				if algo == "" || seen[algo] {
					continue
				}
				seen[algo] = true
				if supported[algo] {
					algos = append(algos, algo)
				}
			}
		}
	}
	if len(algos) == 0 {
		return DefaultOrder()
	}
	return algos
}
