package generation

import (
	"github.com/google/uuid"
)

// OperationKind identifies what the pipeline is being asked to produce.
type OperationKind string

const (
	OpOCR     OperationKind = "ocr"
	OpSummary OperationKind = "summarize"
	OpQuiz    OperationKind = "quiz_gen"
	OpMindmap OperationKind = "mindmap_gen"
	OpRAGChat OperationKind = "rag_chat"
)

// RequiresVision reports whether the operation needs a vision-capable provider.
func (k OperationKind) RequiresVision() bool {
	return k == OpOCR
}

// Parameters are the raw, caller-supplied generation knobs.
// Zero values mean "unset"; the normalizer fills in defaults.
type Parameters struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ContextRefs identifies which collaborating stores the assembler should pull from.
type ContextRefs struct {
	SessionId uuid.UUID
	ImageId   uuid.UUID
	UserId    uuid.UUID
	Limit     int
}

// Request is one unit of work handed to the Orchestrator. Not persisted.
type Request struct {
	Kind        OperationKind
	Text        string
	ImageRef    string // opaque blob reference, resolved lazily
	Params      Parameters
	ContextRefs ContextRefs
}

// Result is what the Orchestrator always hands back on the success path.
// Immutable once constructed.
type Result struct {
	Success          bool
	Text             string
	Artifact         *Artifact
	MethodUsed       string
	Confidence       float64
	FromCache        bool
	ProcessingTimeMs int64
}

// Artifact is the structured (non-plain-text) output shape: a quiz skeleton
// list, a mindmap topic tree, or extracted evidence chunks.
type Artifact struct {
	Questions []QuizQuestion  `json:"questions,omitempty"`
	Topics    []MindmapTopic  `json:"topics,omitempty"`
	Evidence  []EvidenceChunk `json:"evidence,omitempty"`
}

type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

type MindmapTopic struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

// EvidenceChunk is one unit of extracted text with confidence and
// source-location metadata. Persisting it is the caller's concern.
type EvidenceChunk struct {
	Text        string        `json:"text"`
	Confidence  float64       `json:"confidence"`
	ContentType string        `json:"content_type"` // text | equation | diagram | mixed
	Locator     SourceLocator `json:"locator"`
	Method      string        `json:"method"`
}

// SourceLocator pins a chunk to a position within its source document or image.
type SourceLocator struct {
	ChunkIndex int    `json:"chunk_index"`
	Offset     int    `json:"offset,omitempty"`
	Region     string `json:"region,omitempty"`
}

const (
	ContentTypeText     = "text"
	ContentTypeEquation = "equation"
	ContentTypeDiagram  = "diagram"
	ContentTypeMixed    = "mixed"
)

// ProviderResult is the common shape every strategy adapter normalizes to
// before re-entering the Orchestrator.
type ProviderResult struct {
	Success  bool
	Text     string
	Artifact *Artifact
	Raw      string
}
