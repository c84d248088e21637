package chunker

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		targetSize int
		wantChunks int
	}{
		{
			name:       "empty input",
			text:       "   \n\t ",
			targetSize: 100,
			wantChunks: 0,
		},
		{
			name:       "fits in one chunk",
			text:       "short note",
			targetSize: 100,
			wantChunks: 1,
		},
		{
			name:       "two lines split across chunks",
			text:       strings.Repeat("a", 60) + "\n" + strings.Repeat("b", 60),
			targetSize: 100,
			wantChunks: 2,
		},
		{
			name:       "many lines packed into chunks",
			text:       strings.Repeat("line of text here\n", 20),
			targetSize: 100,
			wantChunks: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.targetSize)
			if len(got) != tt.wantChunks {
				t.Errorf("chunks = %d, want %d (%q)", len(got), tt.wantChunks, got)
			}
			for i, c := range got {
				if strings.TrimSpace(c) == "" {
					t.Errorf("chunk %d is blank", i)
				}
			}
		})
	}
}

func TestSplitOverLongLineFallsBackToSentences(t *testing.T) {
	line := "First sentence is here. Second sentence follows on. Third sentence closes it."
	got := Split(line, 30)

	if len(got) < 2 {
		t.Fatalf("expected sentence fallback to produce multiple chunks, got %d", len(got))
	}
	for _, c := range got {
		if !strings.HasSuffix(strings.TrimSpace(c), ".") {
			t.Errorf("chunk %q does not end on a sentence boundary", c)
		}
	}
}

func TestSplitUnbreakableUnitKeptWhole(t *testing.T) {
	// No newlines, no sentence terminators: must become a single oversized
	// chunk rather than being truncated.
	blob := strings.Repeat("x", 500)
	got := Split(blob, 100)

	if len(got) != 1 {
		t.Fatalf("chunks = %d, want 1", len(got))
	}
	if got[0] != blob {
		t.Error("unbreakable unit was altered")
	}
}

func TestSplitPreservesContent(t *testing.T) {
	text := "Alpha line one.\nBeta line two is longer than alpha.\n\nGamma after a blank line."
	got := Split(text, 30)

	joined := strings.Join(got, " ")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q lost in chunking", word)
		}
	}
}

func TestSplitZeroTargetUsesDefault(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := Split(text, 0)

	if len(got) != 1 {
		t.Fatalf("chunks = %d, want 1 under default target", len(got))
	}
}
