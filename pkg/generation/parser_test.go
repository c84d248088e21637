package generation

import (
	"testing"
)

func TestParseArtifactQuiz(t *testing.T) {
	valid := `{"questions":[{"question":"What is mitosis?","options":["Cell division","Protein folding","Gas exchange","Energy storage"],"correct_index":0,"explanation":"Mitosis is cell division."}]}`

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid quiz",
			raw:  valid,
		},
		{
			name: "valid quiz in code fence",
			raw:  "```json\n" + valid + "\n```",
		},
		{
			name:    "empty response",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "Sure! Here are some questions about mitosis.",
			wantErr: true,
		},
		{
			name:    "no questions",
			raw:     `{"questions":[]}`,
			wantErr: true,
		},
		{
			name:    "wrong option count",
			raw:     `{"questions":[{"question":"Q?","options":["a","b"],"correct_index":0}]}`,
			wantErr: true,
		},
		{
			name:    "correct index out of range",
			raw:     `{"questions":[{"question":"Q?","options":["a","b","c","d"],"correct_index":4}]}`,
			wantErr: true,
		},
		{
			name:    "blank question text",
			raw:     `{"questions":[{"question":"  ","options":["a","b","c","d"],"correct_index":0}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := ParseArtifact(OpQuiz, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(artifact.Questions) != 1 {
				t.Errorf("questions = %d, want 1", len(artifact.Questions))
			}
		})
	}
}

func TestParseArtifactMindmap(t *testing.T) {
	valid := `{"topics":[{"title":"Cell Biology","subtopics":["Mitosis","Meiosis"]}]}`

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid mindmap",
			raw:  valid,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n" + valid + "\n```",
		},
		{
			name:    "no topics",
			raw:     `{"topics":[]}`,
			wantErr: true,
		},
		{
			name:    "topic without title",
			raw:     `{"topics":[{"title":"","subtopics":["a"]}]}`,
			wantErr: true,
		},
		{
			name:    "topic without subtopics",
			raw:     `{"topics":[{"title":"T","subtopics":[]}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := ParseArtifact(OpMindmap, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(artifact.Topics) != 1 {
				t.Errorf("topics = %d, want 1", len(artifact.Topics))
			}
		})
	}
}

func TestParseArtifactUnstructuredKind(t *testing.T) {
	if _, err := ParseArtifact(OpSummary, "plain text"); err == nil {
		t.Error("expected error for operation without artifact schema")
	}
}
