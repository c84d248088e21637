package chunker

import "strings"

// DefaultTargetSize keeps each chunk well inside provider context limits.
const DefaultTargetSize = 1500

// Split breaks text into ordered chunks of at most targetSize characters,
// preferring paragraph and line boundaries. A line with no natural boundaries
// is split on sentence terminators instead. A single unbreakable over-long
// unit becomes its own chunk rather than being dropped, so concatenating the
// output reproduces the input modulo whitespace normalization.
func Split(text string, targetSize int) []string {
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= targetSize {
		return []string{trimmed}
	}

	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
	}

	for _, line := range lines(trimmed) {
		for _, unit := range breakLine(line, targetSize) {
			if buf.Len() > 0 && buf.Len()+1+len(unit) > targetSize {
				flush()
			}
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(unit)
		}
	}
	flush()

	return chunks
}

func lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// breakLine splits a single over-long line on sentence terminators. When even
// a sentence exceeds the target it is kept whole: data loss is worse than an
// oversized chunk.
func breakLine(line string, targetSize int) []string {
	if len(line) <= targetSize {
		return []string{line}
	}

	sentences := splitSentences(line)
	if len(sentences) <= 1 {
		return []string{line}
	}

	var out []string
	var buf strings.Builder
	for _, s := range sentences {
		if buf.Len() > 0 && buf.Len()+1+len(s) > targetSize {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(s)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

func splitSentences(line string) []string {
	var sentences []string
	start := 0
	for i, r := range line {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(line[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(line[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
