package contextual

import (
	"context"
	"strings"
	"unicode/utf8"

	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/pkg/generation"

	"github.com/google/uuid"
)

const (
	maxSessions    = 3
	maxChatEntries = 10
	perItemChars   = 500
	maxBundleChars = 6000
)

const (
	SourceSession  = "session"
	SourceEvidence = "evidence"
	SourceChat     = "chat"
)

// SessionRecord is a prior study session as seen by the assembler.
type SessionRecord struct {
	Id      uuid.UUID
	Title   string
	Content string
}

// EvidenceItem is one stored extraction tied to a source image.
type EvidenceItem struct {
	Text       string
	Confidence float64
}

// ChatEntry is one prior message of a chat transcript.
type ChatEntry struct {
	Role string
	Text string
}

// SessionSource supplies prior study sessions, most recent first.
type SessionSource interface {
	RecentSessions(ctx context.Context, userId uuid.UUID, limit int) ([]SessionRecord, error)
	SessionById(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
}

// EvidenceSource supplies stored evidence for a source image.
type EvidenceSource interface {
	EvidenceByImage(ctx context.Context, imageId uuid.UUID) ([]EvidenceItem, error)
}

// ChatSource supplies recent chat history, most recent first.
type ChatSource interface {
	RecentMessages(ctx context.Context, sessionId uuid.UUID, limit int) ([]ChatEntry, error)
}

// Item is one bounded piece of assembled context.
type Item struct {
	SourceKind      string
	Text            string
	TruncatedLength int
}

// Bundle is the assembled, size-bounded context for one request.
// Never mutated after assembly.
type Bundle struct {
	Items         []Item
	SessionCount  int
	EvidenceCount int
	ChatCount     int
	TotalChars    int
}

// Text joins the bundle items for prompt construction.
func (b *Bundle) Text() string {
	var sb strings.Builder
	for _, item := range b.Items {
		sb.WriteString(item.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Assembler gathers bounded context from the collaborating stores. A missing
// or failing source is omitted from the bundle, never raised: downstream
// prompt construction degrades instead of failing.
type Assembler struct {
	sessions SessionSource
	evidence EvidenceSource
	chats    ChatSource
	logger   logger.ILogger
}

func NewAssembler(sessions SessionSource, evidence EvidenceSource, chats ChatSource, log logger.ILogger) *Assembler {
	return &Assembler{
		sessions: sessions,
		evidence: evidence,
		chats:    chats,
		logger:   log,
	}
}

// ContextText assembles the bundle and returns its joined text. Satisfies the
// pipeline's ContextSource.
func (a *Assembler) ContextText(ctx context.Context, refs generation.ContextRefs) string {
	return a.Assemble(ctx, refs).Text()
}

func (a *Assembler) Assemble(ctx context.Context, refs generation.ContextRefs) *Bundle {
	bundle := &Bundle{}

	for _, record := range a.loadSessions(ctx, refs) {
		text := record.Title
		if record.Content != "" {
			text = record.Title + ": " + record.Content
		}
		if a.appendItem(bundle, SourceSession, text) {
			bundle.SessionCount++
		}
	}

	for _, item := range a.loadEvidence(ctx, refs) {
		if a.appendItem(bundle, SourceEvidence, item.Text) {
			bundle.EvidenceCount++
		}
	}

	for _, entry := range a.loadChat(ctx, refs) {
		if a.appendItem(bundle, SourceChat, entry.Role+": "+entry.Text) {
			bundle.ChatCount++
		}
	}

	return bundle
}

// appendItem truncates and adds text unless the aggregate cap is reached.
func (a *Assembler) appendItem(bundle *Bundle, kind, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if bundle.TotalChars >= maxBundleChars {
		return false
	}

	truncatedLen := 0
	if len(text) > perItemChars {
		text = cutAtRune(text, perItemChars)
		truncatedLen = len(text)
	}

	bundle.Items = append(bundle.Items, Item{
		SourceKind:      kind,
		Text:            text,
		TruncatedLength: truncatedLen,
	})
	bundle.TotalChars += len(text)
	return true
}

// cutAtRune shortens s to at most max bytes without splitting a rune.
func cutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func (a *Assembler) loadSessions(ctx context.Context, refs generation.ContextRefs) []SessionRecord {
	if a.sessions == nil {
		return nil
	}

	if refs.SessionId != uuid.Nil {
		record, err := a.sessions.SessionById(ctx, refs.SessionId)
		if err != nil || record == nil {
			a.warn("session lookup failed", err)
			return nil
		}
		return []SessionRecord{*record}
	}

	if refs.UserId == uuid.Nil {
		return nil
	}
	records, err := a.sessions.RecentSessions(ctx, refs.UserId, maxSessions)
	if err != nil {
		a.warn("recent sessions lookup failed", err)
		return nil
	}
	return records
}

func (a *Assembler) loadEvidence(ctx context.Context, refs generation.ContextRefs) []EvidenceItem {
	if a.evidence == nil || refs.ImageId == uuid.Nil {
		return nil
	}
	items, err := a.evidence.EvidenceByImage(ctx, refs.ImageId)
	if err != nil {
		a.warn("evidence lookup failed", err)
		return nil
	}
	return items
}

func (a *Assembler) loadChat(ctx context.Context, refs generation.ContextRefs) []ChatEntry {
	if a.chats == nil || refs.SessionId == uuid.Nil {
		return nil
	}
	limit := maxChatEntries
	if refs.Limit > 0 && refs.Limit < limit {
		limit = refs.Limit
	}
	entries, err := a.chats.RecentMessages(ctx, refs.SessionId, limit)
	if err != nil {
		a.warn("chat history lookup failed", err)
		return nil
	}
	return entries
}

func (a *Assembler) warn(message string, err error) {
	if a.logger == nil {
		return
	}
	details := map[string]interface{}{}
	if err != nil {
		details["error"] = err.Error()
	}
	a.logger.Warn("CONTEXT_ASSEMBLER", message, details)
}
