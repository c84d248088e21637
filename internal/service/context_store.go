package service

import (
	"context"

	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/internal/repository/contract"
	"ai-studyaid-be/internal/repository/specification"
	"ai-studyaid-be/pkg/generation/contextual"

	"github.com/google/uuid"
)

// contextStore adapts the repository layer to the assembler's source
// interfaces. All reads are bounded and most-recent-first.
type contextStore struct {
	sessions contract.StudySessionRepository
	evidence contract.EvidenceRecordRepository
	chats    contract.ChatMessageRepository
}

var _ contextual.SessionSource = &contextStore{}
var _ contextual.EvidenceSource = &contextStore{}
var _ contextual.ChatSource = &contextStore{}

func newContextStore(
	sessions contract.StudySessionRepository,
	evidence contract.EvidenceRecordRepository,
	chats contract.ChatMessageRepository,
) *contextStore {
	return &contextStore{
		sessions: sessions,
		evidence: evidence,
		chats:    chats,
	}
}

// NewContextAssembler wires the repository layer into a context assembler.
func NewContextAssembler(
	sessions contract.StudySessionRepository,
	evidence contract.EvidenceRecordRepository,
	chats contract.ChatMessageRepository,
	log logger.ILogger,
) *contextual.Assembler {
	store := newContextStore(sessions, evidence, chats)
	return contextual.NewAssembler(store, store, store, log)
}

func (s *contextStore) RecentSessions(ctx context.Context, userId uuid.UUID, limit int) ([]contextual.SessionRecord, error) {
	entities, err := s.sessions.FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	records := make([]contextual.SessionRecord, 0, len(entities))
	for _, e := range entities {
		content := e.Summary
		if content == "" {
			content = e.Content
		}
		records = append(records, contextual.SessionRecord{
			Id:      e.Id,
			Title:   e.Title,
			Content: content,
		})
	}
	return records, nil
}

func (s *contextStore) SessionById(ctx context.Context, id uuid.UUID) (*contextual.SessionRecord, error) {
	e, err := s.sessions.FindOne(ctx, specification.ByID{ID: id})
	if err != nil || e == nil {
		return nil, err
	}
	content := e.Summary
	if content == "" {
		content = e.Content
	}
	return &contextual.SessionRecord{Id: e.Id, Title: e.Title, Content: content}, nil
}

func (s *contextStore) EvidenceByImage(ctx context.Context, imageId uuid.UUID) ([]contextual.EvidenceItem, error) {
	entities, err := s.evidence.FindAll(ctx,
		specification.ByImageID{ImageID: imageId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]contextual.EvidenceItem, 0, len(entities))
	for _, e := range entities {
		items = append(items, contextual.EvidenceItem{
			Text:       e.Text,
			Confidence: e.Confidence,
		})
	}
	return items, nil
}

func (s *contextStore) RecentMessages(ctx context.Context, sessionId uuid.UUID, limit int) ([]contextual.ChatEntry, error) {
	entities, err := s.chats.FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	// Reverse so the prompt reads oldest to newest
	entries := make([]contextual.ChatEntry, 0, len(entities))
	for i := len(entities) - 1; i >= 0; i-- {
		entries = append(entries, contextual.ChatEntry{
			Role: entities[i].Role,
			Text: entities[i].Chat,
		})
	}
	return entries, nil
}
