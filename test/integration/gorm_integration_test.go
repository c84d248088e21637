package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-studyaid-be/internal/entity"
	"ai-studyaid-be/internal/repository/implementation"
	"ai-studyaid-be/internal/repository/specification"
	"ai-studyaid-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	sessionRepo := implementation.NewStudySessionRepository(gormDB)
	evidenceRepo := implementation.NewEvidenceRecordRepository(gormDB)
	chatRepo := implementation.NewChatMessageRepository(gormDB)

	ctx := context.Background()
	userId := uuid.New()

	t.Run("StudySession round trip", func(t *testing.T) {
		session := &entity.StudySession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Integration Session",
			Content:   "Integration test content.",
			CreatedAt: time.Now(),
		}
		require.NoError(t, sessionRepo.Create(ctx, session))

		found, err := sessionRepo.FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Integration Session", found.Title)

		all, err := sessionRepo.FindAll(ctx,
			specification.ByUserID{UserID: userId},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Limit{Limit: 3},
		)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("EvidenceRecord bulk create and replace", func(t *testing.T) {
		imageId := uuid.New()
		records := []*entity.EvidenceRecord{
			{Id: uuid.New(), UserId: userId, ImageId: imageId, Text: "chunk one", Confidence: 0.8, ContentType: "text", ChunkIndex: 0, CreatedAt: time.Now()},
			{Id: uuid.New(), UserId: userId, ImageId: imageId, Text: "chunk two", Confidence: 0.6, ContentType: "mixed", ChunkIndex: 1, CreatedAt: time.Now()},
		}
		require.NoError(t, evidenceRepo.CreateBulk(ctx, records))

		found, err := evidenceRepo.FindAll(ctx, specification.ByImageID{ImageID: imageId})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		require.NoError(t, evidenceRepo.DeleteByImageId(ctx, imageId))
		found, err = evidenceRepo.FindAll(ctx, specification.ByImageID{ImageID: imageId})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("ChatMessage round trip", func(t *testing.T) {
		sessionId := uuid.New()
		msg := &entity.ChatMessage{
			Id:        uuid.New(),
			SessionId: sessionId,
			Role:      "user",
			Chat:      "integration hello",
			CreatedAt: time.Now(),
		}
		require.NoError(t, chatRepo.Create(ctx, msg))

		found, err := chatRepo.FindAll(ctx, specification.BySessionID{SessionID: sessionId})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "integration hello", found[0].Chat)
	})
}
