package heuristic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-studyaid-be/pkg/generation"
	"ai-studyaid-be/pkg/generation/chunker"
)

// MethodTag identifies artifacts produced by the local extractor.
const MethodTag = "local-heuristic"

const (
	maxConcepts      = 10
	minTokenLength   = 4
	maxTopics        = 4
	subtopicsPerNode = 3
	maxQuestions     = 5
	// Confidence for heuristic output sits deliberately below anything a
	// remote provider reports, so consumers can flag degraded answers.
	baseConfidence = 0.4
)

var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"will": true, "would": true, "could": true, "should": true, "there": true,
	"their": true, "about": true, "which": true, "when": true, "where": true,
	"been": true, "being": true, "into": true, "only": true, "also": true,
	"more": true, "most": true, "some": true, "such": true, "than": true,
	"then": true, "them": true, "they": true, "what": true, "were": true,
	"your": true, "because": true, "these": true, "those": true, "each": true,
	"other": true, "between": true, "through": true, "during": true, "while": true,
	"does": true, "very": true, "over": true, "under": true, "after": true,
	"before": true, "both": true, "same": true, "used": true, "using": true,
}

// Extractor is the deterministic, fully offline analyzer used both to enrich
// provider output and as the terminal fallback strategy. It performs no
// network I/O and has no failure path: every method returns a non-empty,
// structurally valid artifact even for degenerate input.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// KeyConcepts tokenizes on whitespace, drops short tokens and stopwords,
// deduplicates and ranks by order of first appearance.
func (e *Extractor) KeyConcepts(text string) []string {
	seen := make(map[string]bool)
	var concepts []string

	for _, token := range strings.Fields(text) {
		word := strings.ToLower(strings.Trim(token, ".,;:!?()[]{}\"'`*#-"))
		if len(word) < minTokenLength || stopwords[word] {
			continue
		}
		if !isAlphabetic(word) {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		concepts = append(concepts, word)
		if len(concepts) >= maxConcepts {
			break
		}
	}
	return concepts
}

// Mindmap groups key concepts into a small number of named topic buckets.
func (e *Extractor) Mindmap(text string) *generation.Artifact {
	concepts := e.KeyConcepts(text)
	if len(concepts) == 0 {
		return &generation.Artifact{
			Topics: []generation.MindmapTopic{
				{Title: "Main Topic", Subtopics: []string{"Key point", "Detail", "Example"}},
			},
		}
	}

	var topics []generation.MindmapTopic
	for i := 0; i < len(concepts) && len(topics) < maxTopics; i += subtopicsPerNode {
		end := i + subtopicsPerNode
		if end > len(concepts) {
			end = len(concepts)
		}
		bucket := concepts[i:end]
		topic := generation.MindmapTopic{
			Title:     title(bucket[0]),
			Subtopics: make([]string, 0, len(bucket)),
		}
		for _, c := range bucket {
			topic.Subtopics = append(topic.Subtopics, title(c))
		}
		if len(topic.Subtopics) == 1 {
			topic.Subtopics = append(topic.Subtopics, "Overview", "Details")
		}
		topics = append(topics, topic)
	}

	return &generation.Artifact{Topics: topics}
}

// Quiz turns each key concept into a templated multiple-choice skeleton with
// one heuristically-correct option drawn from the concept's home sentence.
func (e *Extractor) Quiz(text string) *generation.Artifact {
	concepts := e.KeyConcepts(text)
	sentences := sentencesOf(text)

	if len(concepts) == 0 {
		return &generation.Artifact{
			Questions: []generation.QuizQuestion{placeholderQuestion()},
		}
	}

	var questions []generation.QuizQuestion
	for i, concept := range concepts {
		if len(questions) >= maxQuestions {
			break
		}

		correct := "It is a key concept discussed in the material"
		if home := sentenceContaining(sentences, concept); home != "" {
			correct = truncate(home, 120)
		}

		options := []string{
			correct,
			"It is unrelated to the material",
			"It is only mentioned as a counterexample",
			"It contradicts the main argument",
		}

		// Rotate so the correct option is not always first.
		correctIndex := i % len(options)
		options[0], options[correctIndex] = options[correctIndex], options[0]

		questions = append(questions, generation.QuizQuestion{
			Question:     fmt.Sprintf("Which statement best describes '%s' in the source material?", title(concept)),
			Options:      options,
			CorrectIndex: correctIndex,
			Explanation:  fmt.Sprintf("'%s' appears in the source material in this context.", title(concept)),
		})
	}

	if len(questions) == 0 {
		questions = append(questions, placeholderQuestion())
	}
	return &generation.Artifact{Questions: questions}
}

// Evidence chunks the text and wraps each chunk in an EvidenceChunk with a
// content-type guess and a confidence score.
func (e *Extractor) Evidence(text string) *generation.Artifact {
	chunks := chunker.Split(text, chunker.DefaultTargetSize)
	if len(chunks) == 0 {
		return &generation.Artifact{
			Evidence: []generation.EvidenceChunk{{
				Text:        "No readable content could be extracted from the source.",
				Confidence:  0.1,
				ContentType: generation.ContentTypeText,
				Locator:     generation.SourceLocator{ChunkIndex: 0},
				Method:      MethodTag,
			}},
		}
	}

	offset := 0
	evidence := make([]generation.EvidenceChunk, 0, len(chunks))
	for i, chunk := range chunks {
		evidence = append(evidence, generation.EvidenceChunk{
			Text:        chunk,
			Confidence:  chunkConfidence(chunk),
			ContentType: classify(chunk),
			Locator:     generation.SourceLocator{ChunkIndex: i, Offset: offset},
			Method:      MethodTag,
		})
		offset += len(chunk)
	}
	return &generation.Artifact{Evidence: evidence}
}

// Summarize builds an extractive summary: the leading sentences plus the key
// concept list.
func (e *Extractor) Summarize(text string) string {
	sentences := sentencesOf(text)
	if len(sentences) == 0 {
		return "The provided material contains no summarizable content."
	}

	limit := 3
	if len(sentences) < limit {
		limit = len(sentences)
	}
	summary := strings.Join(sentences[:limit], " ")

	if concepts := e.KeyConcepts(text); len(concepts) > 0 {
		titled := make([]string, len(concepts))
		for i, c := range concepts {
			titled[i] = title(c)
		}
		summary += "\n\nKey concepts: " + strings.Join(titled, ", ")
	}
	return summary
}

// Answer produces a grounded fallback chat reply quoting the most relevant
// context lines for the query.
func (e *Extractor) Answer(query, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		return "I could not reach the assistant right now and have no stored notes to draw on. Please try again shortly."
	}

	queryConcepts := e.KeyConcepts(query)
	var relevant []string
	for _, sentence := range sentencesOf(contextText) {
		lower := strings.ToLower(sentence)
		for _, c := range queryConcepts {
			if strings.Contains(lower, c) {
				relevant = append(relevant, sentence)
				break
			}
		}
		if len(relevant) >= 3 {
			break
		}
	}

	if len(relevant) == 0 {
		return "Based on your notes: " + e.Summarize(contextText)
	}
	return "From your notes: " + strings.Join(relevant, " ")
}

// Confidence reports the fixed confidence assigned to heuristic output.
func (e *Extractor) Confidence() float64 {
	return baseConfidence
}

func placeholderQuestion() generation.QuizQuestion {
	return generation.QuizQuestion{
		Question:     "What is the main subject of the provided material?",
		Options:      []string{"The topic covered in the source text", "An unrelated subject", "A historical anecdote", "A fictional narrative"},
		CorrectIndex: 0,
		Explanation:  "The material itself defines its main subject.",
	}
}

func sentencesOf(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		start := 0
		for i, r := range line {
			if r == '.' || r == '!' || r == '?' {
				if s := strings.TrimSpace(line[start : i+1]); len(s) > 3 {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
		if rest := strings.TrimSpace(line[start:]); len(rest) > 3 {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

func sentenceContaining(sentences []string, concept string) string {
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), concept) {
			return s
		}
	}
	return ""
}

func classify(chunk string) string {
	hasEquation := strings.ContainsAny(chunk, "=∫∑√") ||
		strings.Contains(chunk, "\\frac") || strings.Contains(chunk, "+/-")
	hasDiagram := strings.Contains(strings.ToLower(chunk), "figure") ||
		strings.Contains(strings.ToLower(chunk), "diagram")

	switch {
	case hasEquation && hasDiagram:
		return generation.ContentTypeMixed
	case hasEquation:
		return generation.ContentTypeEquation
	case hasDiagram:
		return generation.ContentTypeDiagram
	default:
		return generation.ContentTypeText
	}
}

func chunkConfidence(chunk string) float64 {
	// Longer, word-dense chunks read as cleaner extractions.
	words := len(strings.Fields(chunk))
	switch {
	case words >= 50:
		return 0.8
	case words >= 10:
		return 0.6
	default:
		return 0.3
	}
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if (r < 'a' || r > 'z') && r != '-' {
			return false
		}
	}
	return true
}

func title(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
