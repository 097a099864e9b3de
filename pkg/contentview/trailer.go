package contentview

import (
	"encoding/json"
	"strings"

	"github.com/wirelens/go-sdk/internal/yamlutil"
)

// renderTrailer renders a trailer or end-stream body. JSON bodies (Connect
// end-stream with +json) are dumped as structured text; otherwise the body is
// parsed as "key: value" lines with repeated keys merged in first-seen order.
// Anything that is not header-shaped comes back verbatim.
func renderTrailer(text string) string {
	t := strings.TrimSpace(text)
	if (strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")) ||
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]")) {
		var doc any
		if err := json.Unmarshal([]byte(t), &doc); err == nil {
			return yamlutil.Dump(doc)
		}
	}

	merged := yamlutil.NewOrderedMap()
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		ln = strings.Trim(ln, "\r")
		k, v, ok := strings.Cut(ln, ":")
		if !ok {
			// Not header-like, bail out to raw text rendering.
			return text
		}
		mergeHeaderPair(merged, strings.TrimSpace(k), strings.TrimLeft(v, " \t"))
	}
	return yamlutil.Dump(merged)
}

// mergeHeaderPair collapses repeated keys into an ordered list of values
// while a single occurrence stays a scalar.
func mergeHeaderPair(m *yamlutil.OrderedMap, key, value string) {
	prev, ok := m.Get(key)
	if !ok {
		m.Set(key, value)
		return
	}
	switch pv := prev.(type) {
	case []string:
		m.Set(key, append(pv, value))
	default:
		m.Set(key, []string{pv.(string), value})
	}
}
