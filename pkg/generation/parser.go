package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseArtifact validates a provider response against the expected artifact
// schema for the operation. A failure here is a soft ProviderError feeding the
// fallback cascade, never a best-effort scrape of the raw text.
func ParseArtifact(kind OperationKind, raw string) (*Artifact, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty provider response")
	}

	switch kind {
	case OpQuiz:
		return parseQuiz(cleaned)
	case OpMindmap:
		return parseMindmap(cleaned)
	default:
		return nil, fmt.Errorf("operation %s has no structured artifact schema", kind)
	}
}

func parseQuiz(cleaned string) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal([]byte(cleaned), &artifact); err != nil {
		return nil, fmt.Errorf("parse error: %w | raw: %s", err, truncateRaw(cleaned))
	}
	if len(artifact.Questions) == 0 {
		return nil, fmt.Errorf("quiz payload has no questions")
	}
	for i, q := range artifact.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d is empty", i)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %d correct_index %d out of range", i, q.CorrectIndex)
		}
	}
	return &Artifact{Questions: artifact.Questions}, nil
}

func parseMindmap(cleaned string) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal([]byte(cleaned), &artifact); err != nil {
		return nil, fmt.Errorf("parse error: %w | raw: %s", err, truncateRaw(cleaned))
	}
	if len(artifact.Topics) == 0 {
		return nil, fmt.Errorf("mindmap payload has no topics")
	}
	for i, topic := range artifact.Topics {
		if strings.TrimSpace(topic.Title) == "" {
			return nil, fmt.Errorf("topic %d has no title", i)
		}
		if len(topic.Subtopics) == 0 {
			return nil, fmt.Errorf("topic %d has no subtopics", i)
		}
	}
	return &Artifact{Topics: artifact.Topics}, nil
}

// stripFences removes a markdown code fence wrapper if the model added one.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncateRaw(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}
