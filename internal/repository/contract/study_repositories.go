package contract

import (
	"context"

	"ai-studyaid-be/internal/entity"
	"ai-studyaid-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StudySessionRepository interface {
	Create(ctx context.Context, session *entity.StudySession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudySession, error)
}

type EvidenceRecordRepository interface {
	CreateBulk(ctx context.Context, records []*entity.EvidenceRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EvidenceRecord, error)
	DeleteByImageId(ctx context.Context, imageId uuid.UUID) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}
