package prompt

import (
	"strings"
	"testing"

	"ai-studyaid-be/pkg/generation"
)

func TestBuildWrapsContext(t *testing.T) {
	p := NewBuilder(generation.OpSummary, "some notes", "prior session text").Build()

	if !strings.Contains(p, "<reference_material>") || !strings.Contains(p, "prior session text") {
		t.Error("context missing from prompt")
	}
	if !strings.Contains(p, "some notes") {
		t.Error("input missing from prompt")
	}
}

func TestBuildOmitsEmptyContext(t *testing.T) {
	p := NewBuilder(generation.OpSummary, "some notes", "   ").Build()

	if strings.Contains(p, "<reference_material>") {
		t.Error("empty context should not produce a reference block")
	}
}

func TestBuildStructuredTasksDemandJSON(t *testing.T) {
	for _, kind := range []generation.OperationKind{generation.OpQuiz, generation.OpMindmap} {
		p := NewBuilder(kind, "source text", "").Build()
		if !strings.Contains(p, "JSON") {
			t.Errorf("%s prompt does not pin the output format", kind)
		}
	}
}

func TestBuildQuizSchemaMatchesParser(t *testing.T) {
	p := NewBuilder(generation.OpQuiz, "source text", "").Build()

	// The demanded schema must use the field names the validator expects.
	for _, field := range []string{`"questions"`, `"options"`, `"correct_index"`} {
		if !strings.Contains(p, field) {
			t.Errorf("quiz prompt missing schema field %s", field)
		}
	}
}

func TestBuildMindmapSchemaMatchesParser(t *testing.T) {
	p := NewBuilder(generation.OpMindmap, "source text", "").Build()

	for _, field := range []string{`"topics"`, `"title"`, `"subtopics"`} {
		if !strings.Contains(p, field) {
			t.Errorf("mindmap prompt missing schema field %s", field)
		}
	}
}
