package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the still encoders that are usable on this machine.
type Registry struct {
	encoders map[string]Encoder
}

// priority is the order formats are listed in.
var priority = []string{"png", "jpeg", "webp"}

// NewRegistry probes every encoder and keeps the available ones.
func NewRegistry() *Registry {
	return NewRegistryWith(&PNGEncoder{}, &JPEGEncoder{}, &WebPEncoder{})
}

// NewRegistryWith builds a registry from explicit encoders.
func NewRegistryWith(all ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns the encoder for format, or nil.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Resolve returns the encoder for format, falling back to PNG when the
// requested one is not installed. fellBack reports the substitution.
func (r *Registry) Resolve(format string) (enc Encoder, fellBack bool, err error) {
	if enc := r.Get(format); enc != nil {
		return enc, false, nil
	}
	if png := r.encoders["png"]; png != nil {
		return png, true, nil
	}
	return nil, false, fmt.Errorf("%w: %s", ErrUnavailable, format)
}

// Available returns the usable format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s, gif", strings.Join(avail, ", "))
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "jpg" {
		return "jpeg"
	}
	return f
}
