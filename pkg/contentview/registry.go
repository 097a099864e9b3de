package contentview

import (
	"fmt"
	"sync"
)

// Registry manages the collection of available content views.
// It provides thread-safe registration, named lookup, and best-match
// selection across all registered views.
type Registry struct {
	mu sync.RWMutex

	// views in registration order; earlier registration wins score ties
	views []Contentview

	// byName maps view names for direct lookup
	byName map[string]Contentview
}

// NewRegistry creates an empty view registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Contentview),
	}
}

// NewDefaultRegistry creates a registry pre-populated with the built-in
// views: raw, hex, json, protobuf, and grpc (which delegates per-frame
// rendering back to this registry).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range []Contentview{
		NewRawView(),
		NewHexView(),
		NewJSONView(),
		NewProtobufView(),
		NewGRPCView(r),
	} {
		if err := r.Register(v); err != nil {
			// Only reachable through a duplicate built-in name.
			panic(err)
		}
	}
	return r
}

// Register adds a view to the registry.
// It returns an error if the view is nil or its name is already taken.
func (r *Registry) Register(v Contentview) error {
	if v == nil {
		return fmt.Errorf("contentview cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[v.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrViewExists, v.Name())
	}
	r.byName[v.Name()] = v
	r.views = append(r.views, v)
	return nil
}

// Get returns the view registered under the given name.
func (r *Registry) Get(name string) (Contentview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	return v, nil
}

// Names returns the registered view names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.views))
	for _, v := range r.views {
		names = append(names, v.Name())
	}
	return names
}

// BestMatch returns the registered view with the highest score for the given
// bytes. Ties go to the earlier registration. When every view opts out, the
// raw view is returned so that callers always get a usable renderer.
func (r *Registry) BestMatch(data []byte, md *Metadata) Contentview {
	r.mu.RLock()
	views := make([]Contentview, len(r.views))
	copy(views, r.views)
	r.mu.RUnlock()

	var best Contentview
	bestScore := ScoreNoMatch
	for _, v := range views {
		if s := safeScore(v, data, md); s >= 0 && s > bestScore {
			best, bestScore = v, s
		}
	}
	if best != nil {
		return best
	}
	if raw, err := r.Get("raw"); err == nil {
		return raw
	}
	return NewRawView()
}

// safeScore invokes Score, converting a panic into the no-match sentinel.
// Scoring runs over untrusted input and must never take down the caller.
func safeScore(v Contentview, data []byte, md *Metadata) (score float64) {
	defer func() {
		if p := recover(); p != nil {
			log.WithField("view", v.Name()).Debugf("score panicked: %v", p)
			score = ScoreNoMatch
		}
	}()
	return v.Score(data, md)
}
