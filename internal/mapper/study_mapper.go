package mapper

import (
	"encoding/json"
	"time"

	"ai-studyaid-be/internal/entity"
	"ai-studyaid-be/internal/model"

	"gorm.io/datatypes"
)

type StudyMapper struct{}

func NewStudyMapper() *StudyMapper {
	return &StudyMapper{}
}

func (m *StudyMapper) SessionToEntity(s *model.StudySession) *entity.StudySession {
	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}
	return &entity.StudySession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		Content:   s.Content,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *StudyMapper) SessionToModel(s *entity.StudySession) *model.StudySession {
	out := &model.StudySession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		Content:   s.Content,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		out.UpdatedAt = *s.UpdatedAt
	}
	return out
}

// locatorJSON is the persisted shape of an evidence source locator.
type locatorJSON struct {
	ChunkIndex int    `json:"chunk_index"`
	Offset     int    `json:"offset,omitempty"`
	Region     string `json:"region,omitempty"`
}

func (m *StudyMapper) EvidenceToEntity(e *model.EvidenceRecord) *entity.EvidenceRecord {
	var loc locatorJSON
	if len(e.Locator) > 0 {
		_ = json.Unmarshal(e.Locator, &loc)
	}
	return &entity.EvidenceRecord{
		Id:          e.Id,
		ImageId:     e.ImageId,
		UserId:      e.UserId,
		Text:        e.Text,
		Confidence:  e.Confidence,
		ContentType: e.ContentType,
		ChunkIndex:  loc.ChunkIndex,
		Offset:      loc.Offset,
		Region:      loc.Region,
		Method:      e.Method,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *StudyMapper) EvidenceToModel(e *entity.EvidenceRecord) *model.EvidenceRecord {
	loc, _ := json.Marshal(locatorJSON{
		ChunkIndex: e.ChunkIndex,
		Offset:     e.Offset,
		Region:     e.Region,
	})
	return &model.EvidenceRecord{
		Id:          e.Id,
		ImageId:     e.ImageId,
		UserId:      e.UserId,
		Text:        e.Text,
		Confidence:  e.Confidence,
		ContentType: e.ContentType,
		Locator:     datatypes.JSON(loc),
		Method:      e.Method,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *StudyMapper) ChatMessageToEntity(c *model.ChatMessage) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        c.Id,
		SessionId: c.SessionId,
		Role:      c.Role,
		Chat:      c.Chat,
		CreatedAt: c.CreatedAt,
	}
}

func (m *StudyMapper) ChatMessageToModel(c *entity.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:        c.Id,
		SessionId: c.SessionId,
		Role:      c.Role,
		Chat:      c.Chat,
		CreatedAt: c.CreatedAt,
	}
}
