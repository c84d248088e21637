package params

import (
	"testing"

	"ai-studyaid-be/pkg/generation"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultBounds())

	tests := []struct {
		name string
		in   generation.Parameters
		want generation.Parameters
	}{
		{
			name: "all unset gets defaults",
			in:   generation.Parameters{},
			want: generation.Parameters{MaxTokens: 1024, Temperature: 0.7, TopP: 0.95},
		},
		{
			name: "tokens below minimum raised to minimum",
			in:   generation.Parameters{MaxTokens: 10, Temperature: 1, TopP: 0.5},
			want: generation.Parameters{MaxTokens: 64, Temperature: 1, TopP: 0.5},
		},
		{
			name: "tokens above maximum lowered to maximum",
			in:   generation.Parameters{MaxTokens: 100000, Temperature: 1, TopP: 0.5},
			want: generation.Parameters{MaxTokens: 8000, Temperature: 1, TopP: 0.5},
		},
		{
			name: "negative tokens treated as below minimum",
			in:   generation.Parameters{MaxTokens: -5, Temperature: 1, TopP: 0.5},
			want: generation.Parameters{MaxTokens: 64, Temperature: 1, TopP: 0.5},
		},
		{
			name: "temperature above ceiling clamped",
			in:   generation.Parameters{MaxTokens: 512, Temperature: 5, TopP: 0.5},
			want: generation.Parameters{MaxTokens: 512, Temperature: 2, TopP: 0.5},
		},
		{
			name: "negative temperature treated as unset",
			in:   generation.Parameters{MaxTokens: 512, Temperature: -1, TopP: 0.5},
			want: generation.Parameters{MaxTokens: 512, Temperature: 0.7, TopP: 0.5},
		},
		{
			name: "topP above ceiling clamped",
			in:   generation.Parameters{MaxTokens: 512, Temperature: 1, TopP: 1.5},
			want: generation.Parameters{MaxTokens: 512, Temperature: 1, TopP: 1},
		},
		{
			name: "in-range values untouched",
			in:   generation.Parameters{MaxTokens: 2048, Temperature: 0.3, TopP: 0.9},
			want: generation.Parameters{MaxTokens: 2048, Temperature: 0.3, TopP: 0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultBounds())

	inputs := []generation.Parameters{
		{},
		{MaxTokens: -5, Temperature: -1, TopP: -1},
		{MaxTokens: 100000, Temperature: 5, TopP: 2},
		{MaxTokens: 2048, Temperature: 0.3, TopP: 0.9},
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %+v: first %+v, second %+v", in, once, twice)
		}
	}
}

func TestNewNormalizerRepairsBounds(t *testing.T) {
	// A misconfigured bounds block must still yield a working normalizer.
	n := NewNormalizer(Bounds{MinTokens: -1, MaxTokens: -1, DefaultTokens: -1})

	got := n.Normalize(generation.Parameters{})
	if got.MaxTokens <= 0 {
		t.Errorf("expected positive default MaxTokens, got %d", got.MaxTokens)
	}
}

func TestNewNormalizerRaisesCeilingAboveFloor(t *testing.T) {
	// A floor above the stock ceiling must pull the ceiling up with it,
	// otherwise clamping oscillates between the two.
	n := NewNormalizer(Bounds{MinTokens: 9000, MaxTokens: 8000, DefaultTokens: 1024})

	once := n.Normalize(generation.Parameters{MaxTokens: 9500})
	twice := n.Normalize(once)
	if once != twice {
		t.Fatalf("Normalize not idempotent: first %+v, second %+v", once, twice)
	}
	if once.MaxTokens < 9000 {
		t.Errorf("expected MaxTokens >= 9000, got %d", once.MaxTokens)
	}
}
