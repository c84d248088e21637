package params

import "ai-studyaid-be/pkg/generation"

// Bounds holds the configured limits for generation parameters.
type Bounds struct {
	MinTokens          int
	MaxTokens          int
	DefaultTokens      int
	DefaultTemperature float64
	DefaultTopP        float64
}

// DefaultBounds mirrors the values the providers are known to tolerate.
func DefaultBounds() Bounds {
	return Bounds{
		MinTokens:          64,
		MaxTokens:          8000,
		DefaultTokens:      1024,
		DefaultTemperature: 0.7,
		DefaultTopP:        0.95,
	}
}

// Normalizer clamps caller-supplied parameters into safe ranges.
// It is pure, total and idempotent: it never fails and applying it twice
// yields the same result as applying it once.
type Normalizer struct {
	bounds Bounds
}

func NewNormalizer(bounds Bounds) *Normalizer {
	if bounds.MinTokens <= 0 {
		bounds.MinTokens = DefaultBounds().MinTokens
	}
	if bounds.MaxTokens < bounds.MinTokens {
		bounds.MaxTokens = DefaultBounds().MaxTokens
		if bounds.MaxTokens < bounds.MinTokens {
			bounds.MaxTokens = bounds.MinTokens
		}
	}
	if bounds.DefaultTokens < bounds.MinTokens || bounds.DefaultTokens > bounds.MaxTokens {
		bounds.DefaultTokens = bounds.MinTokens
	}
	return &Normalizer{bounds: bounds}
}

func (n *Normalizer) Normalize(p generation.Parameters) generation.Parameters {
	out := p

	switch {
	case out.MaxTokens == 0:
		out.MaxTokens = n.bounds.DefaultTokens
	case out.MaxTokens < n.bounds.MinTokens:
		out.MaxTokens = n.bounds.MinTokens
	case out.MaxTokens > n.bounds.MaxTokens:
		out.MaxTokens = n.bounds.MaxTokens
	}

	// Non-positive means unset; clamping a negative to zero and then
	// defaulting it on a second pass would break idempotence.
	if out.Temperature <= 0 {
		out.Temperature = n.bounds.DefaultTemperature
	}
	out.Temperature = clamp(out.Temperature, 0, 2)

	if out.TopP <= 0 {
		out.TopP = n.bounds.DefaultTopP
	}
	out.TopP = clamp(out.TopP, 0, 1)

	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
