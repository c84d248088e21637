package heuristic

import (
	"strings"
	"testing"
	"unicode/utf8"

	"ai-studyaid-be/pkg/generation"
)

const sampleText = `Photosynthesis converts light energy into chemical energy.
Chlorophyll absorbs light in the chloroplasts.
The Calvin cycle fixes carbon dioxide into glucose.
Stomata regulate photosynthesis by controlling gas exchange.`

func TestKeyConcepts(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name      string
		text      string
		wantFirst string
		wantMax   int
		wantEmpty bool
	}{
		{
			name:      "ranked by first appearance",
			text:      sampleText,
			wantFirst: "photosynthesis",
			wantMax:   10,
		},
		{
			name:      "empty input",
			text:      "",
			wantEmpty: true,
		},
		{
			name:      "stopwords and short tokens dropped",
			text:      "this that with a to be or not",
			wantEmpty: true,
		},
		{
			name:      "numbers and symbols dropped",
			text:      "12345 $$$$ ==== variable",
			wantFirst: "variable",
			wantMax:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.KeyConcepts(tt.text)
			if tt.wantEmpty {
				if len(got) != 0 {
					t.Errorf("concepts = %v, want none", got)
				}
				return
			}
			if len(got) == 0 {
				t.Fatal("no concepts extracted")
			}
			if got[0] != tt.wantFirst {
				t.Errorf("first concept = %q, want %q", got[0], tt.wantFirst)
			}
			if len(got) > tt.wantMax {
				t.Errorf("concepts = %d, want at most %d", len(got), tt.wantMax)
			}
		})
	}
}

func TestKeyConceptsDeduplicates(t *testing.T) {
	e := NewExtractor()

	got := e.KeyConcepts("mitosis mitosis Mitosis MITOSIS meiosis")
	if len(got) != 2 {
		t.Fatalf("concepts = %v, want exactly [mitosis meiosis]", got)
	}
	if got[0] != "mitosis" || got[1] != "meiosis" {
		t.Errorf("concepts = %v, want [mitosis meiosis]", got)
	}
}

func TestQuiz(t *testing.T) {
	e := NewExtractor()

	artifact := e.Quiz(sampleText)
	if len(artifact.Questions) == 0 {
		t.Fatal("no questions generated")
	}
	if len(artifact.Questions) > 5 {
		t.Errorf("questions = %d, want at most 5", len(artifact.Questions))
	}

	for i, q := range artifact.Questions {
		if q.Question == "" {
			t.Errorf("question %d has empty text", i)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			t.Errorf("question %d CorrectIndex %d out of range", i, q.CorrectIndex)
		}
	}
}

func TestQuizRotatesCorrectIndex(t *testing.T) {
	e := NewExtractor()

	artifact := e.Quiz(sampleText)
	if len(artifact.Questions) < 2 {
		t.Skip("need at least two questions to observe rotation")
	}

	first := artifact.Questions[0].CorrectIndex
	allSame := true
	for _, q := range artifact.Questions[1:] {
		if q.CorrectIndex != first {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("correct answer always lands on the same option index")
	}
}

func TestQuizDegenerateInput(t *testing.T) {
	e := NewExtractor()

	artifact := e.Quiz("")
	if len(artifact.Questions) != 1 {
		t.Fatalf("questions = %d, want 1 placeholder", len(artifact.Questions))
	}
	q := artifact.Questions[0]
	if len(q.Options) != 4 || q.CorrectIndex != 0 {
		t.Errorf("placeholder malformed: %+v", q)
	}
}

func TestMindmap(t *testing.T) {
	e := NewExtractor()

	artifact := e.Mindmap(sampleText)
	if len(artifact.Topics) == 0 {
		t.Fatal("no topics generated")
	}
	if len(artifact.Topics) > 4 {
		t.Errorf("topics = %d, want at most 4", len(artifact.Topics))
	}
	for i, topic := range artifact.Topics {
		if topic.Title == "" {
			t.Errorf("topic %d has empty title", i)
		}
		if len(topic.Subtopics) == 0 {
			t.Errorf("topic %d has no subtopics", i)
		}
	}
}

func TestMindmapDegenerateInput(t *testing.T) {
	e := NewExtractor()

	artifact := e.Mindmap("   ")
	if len(artifact.Topics) != 1 {
		t.Fatalf("topics = %d, want 1 placeholder", len(artifact.Topics))
	}
	if artifact.Topics[0].Title != "Main Topic" {
		t.Errorf("placeholder title = %q", artifact.Topics[0].Title)
	}
}

func TestEvidence(t *testing.T) {
	e := NewExtractor()

	artifact := e.Evidence(sampleText)
	if len(artifact.Evidence) == 0 {
		t.Fatal("no evidence produced")
	}
	for i, chunk := range artifact.Evidence {
		if chunk.Method != MethodTag {
			t.Errorf("chunk %d Method = %q, want %q", i, chunk.Method, MethodTag)
		}
		if chunk.Confidence <= 0 || chunk.Confidence > 1 {
			t.Errorf("chunk %d Confidence = %f out of range", i, chunk.Confidence)
		}
		if chunk.Locator.ChunkIndex != i {
			t.Errorf("chunk %d Locator.ChunkIndex = %d", i, chunk.Locator.ChunkIndex)
		}
	}
}

func TestEvidenceClassifiesContent(t *testing.T) {
	e := NewExtractor()

	artifact := e.Evidence("The energy balance is E = mc^2 for this system.")
	if got := artifact.Evidence[0].ContentType; got != generation.ContentTypeEquation {
		t.Errorf("ContentType = %q, want equation", got)
	}

	artifact = e.Evidence("See the diagram of the cell membrane below for details.")
	if got := artifact.Evidence[0].ContentType; got != generation.ContentTypeDiagram {
		t.Errorf("ContentType = %q, want diagram", got)
	}

	artifact = e.Evidence("Figure 3 shows that F = ma holds in every trial run.")
	if got := artifact.Evidence[0].ContentType; got != generation.ContentTypeMixed {
		t.Errorf("ContentType = %q, want mixed", got)
	}
}

func TestEvidenceDegenerateInput(t *testing.T) {
	e := NewExtractor()

	artifact := e.Evidence("")
	if len(artifact.Evidence) != 1 {
		t.Fatalf("evidence = %d, want 1 placeholder", len(artifact.Evidence))
	}
	if artifact.Evidence[0].Confidence >= 0.2 {
		t.Error("placeholder should carry near-zero confidence")
	}
}

func TestSummarize(t *testing.T) {
	e := NewExtractor()

	summary := e.Summarize(sampleText)
	if !strings.Contains(summary, "Photosynthesis converts light energy") {
		t.Error("summary missing leading sentence")
	}
	if !strings.Contains(summary, "Key concepts:") {
		t.Error("summary missing concept list")
	}

	if got := e.Summarize(""); !strings.Contains(got, "no summarizable content") {
		t.Errorf("degenerate summary = %q", got)
	}
}

func TestAnswer(t *testing.T) {
	e := NewExtractor()

	t.Run("quotes matching context sentences", func(t *testing.T) {
		got := e.Answer("What does chlorophyll do?", sampleText)
		if !strings.Contains(got, "Chlorophyll absorbs light") {
			t.Errorf("answer %q does not quote the relevant sentence", got)
		}
	})

	t.Run("falls back to summary when nothing matches", func(t *testing.T) {
		got := e.Answer("Explain quantum entanglement", sampleText)
		if !strings.HasPrefix(got, "Based on your notes:") {
			t.Errorf("answer %q should fall back to a summary", got)
		}
	})

	t.Run("no context at all", func(t *testing.T) {
		got := e.Answer("anything", "")
		if !strings.Contains(got, "no stored notes") {
			t.Errorf("answer %q should admit missing context", got)
		}
	})
}

func TestConfidenceBelowRemoteRange(t *testing.T) {
	e := NewExtractor()
	if c := e.Confidence(); c >= 0.7 {
		t.Errorf("heuristic confidence %f should sit below remote provider confidence", c)
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	// A cut landing inside a two-byte rune must back off to the rune start.
	in := "x" + strings.Repeat("ü", 10)
	got := truncate(in, 4)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if want := "xü..."; got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
}
