package prompt

import (
	"strings"

	"ai-studyaid-be/pkg/generation"
)

// Builder assembles the provider prompt for one generation request.
type Builder struct {
	kind        generation.OperationKind
	input       string
	contextText string
}

func NewBuilder(kind generation.OperationKind, input, contextText string) *Builder {
	return &Builder{
		kind:        kind,
		input:       input,
		contextText: contextText,
	}
}

func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeContext(&prompt)

	switch b.kind {
	case generation.OpOCR:
		b.writeOCRTask(&prompt)
	case generation.OpSummary:
		b.writeSummaryTask(&prompt)
	case generation.OpQuiz:
		b.writeQuizTask(&prompt)
	case generation.OpMindmap:
		b.writeMindmapTask(&prompt)
	case generation.OpRAGChat:
		b.writeChatTask(&prompt)
	}

	return prompt.String()
}

func (b *Builder) writeContext(prompt *strings.Builder) {
	if strings.TrimSpace(b.contextText) == "" {
		return
	}
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(b.contextText)
	prompt.WriteString("\n</reference_material>\n\n")
}

func (b *Builder) writeOCRTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Extract every readable piece of text from the attached image.\n")
	prompt.WriteString("Preserve line breaks, equations and list structure as closely as possible.\n")
	prompt.WriteString("Return only the extracted text, no commentary.\n")
	prompt.WriteString("</task>\n")
	if strings.TrimSpace(b.input) != "" {
		prompt.WriteString("\n<hint>\n")
		prompt.WriteString(b.input)
		prompt.WriteString("\n</hint>\n")
	}
}

func (b *Builder) writeSummaryTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Summarize the following study material for revision purposes.\n")
	prompt.WriteString("Capture the key points and definitions; keep it concise and well-organized.\n")
	prompt.WriteString("</task>\n\n")
	b.writeInput(prompt, "material")
}

func (b *Builder) writeQuizTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Create multiple-choice questions from the following study material.\n")
	prompt.WriteString("Each question must have exactly 4 options and one correct answer.\n")
	prompt.WriteString("</task>\n\n")
	b.writeInput(prompt, "material")
	prompt.WriteString("\nRespond with ONLY this JSON format, no other text:\n")
	prompt.WriteString(`{"questions":[{"question":"...","options":["...","...","...","..."],"correct_index":0,"explanation":"..."}]}`)
	prompt.WriteString("\n")
}

func (b *Builder) writeMindmapTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Build a mindmap outline of the following study material.\n")
	prompt.WriteString("Group related ideas under a small number of topics, each with concise subtopics.\n")
	prompt.WriteString("</task>\n\n")
	b.writeInput(prompt, "material")
	prompt.WriteString("\nRespond with ONLY this JSON format, no other text:\n")
	prompt.WriteString(`{"topics":[{"title":"...","subtopics":["...","..."]}]}`)
	prompt.WriteString("\n")
}

func (b *Builder) writeChatTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a study assistant answering from the user's own notes.\n")
	prompt.WriteString("Base your answer strictly on the reference material when it is provided.\n")
	prompt.WriteString("If the material does not cover the question, say so honestly.\n")
	prompt.WriteString("</task>\n\n")
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.input)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")
}

func (b *Builder) writeInput(prompt *strings.Builder, tag string) {
	prompt.WriteString("<" + tag + ">\n")
	prompt.WriteString(b.input)
	prompt.WriteString("\n</" + tag + ">\n")
}
