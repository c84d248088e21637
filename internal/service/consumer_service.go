package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-studyaid-be/internal/entity"
	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	evidenceRepo contract.EvidenceRecordRepository
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	evidenceRepo contract.EvidenceRecordRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		evidenceRepo: evidenceRepo,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload PersistEvidenceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER_SERVICE", "failed to unmarshal evidence message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, do not retry
		return
	}

	cs.logger.Info("CONSUMER_SERVICE", "persisting evidence", map[string]interface{}{
		"image_id": payload.ImageId.String(),
		"chunks":   len(payload.Evidence),
	})

	records := make([]*entity.EvidenceRecord, 0, len(payload.Evidence))
	for _, chunk := range payload.Evidence {
		records = append(records, &entity.EvidenceRecord{
			Id:          uuid.New(),
			UserId:      payload.UserId,
			ImageId:     payload.ImageId,
			Text:        chunk.Text,
			Confidence:  chunk.Confidence,
			ContentType: chunk.ContentType,
			Method:      chunk.Method,
			ChunkIndex:  chunk.Locator.ChunkIndex,
			Offset:      chunk.Locator.Offset,
			Region:      chunk.Locator.Region,
			CreatedAt:   time.Now(),
		})
	}

	// Re-extraction replaces earlier chunks for the same image.
	if err := cs.evidenceRepo.DeleteByImageId(ctx, payload.ImageId); err != nil {
		cs.logger.Error("CONSUMER_SERVICE", "failed to delete stale evidence", map[string]interface{}{
			"image_id": payload.ImageId.String(),
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}

	if len(records) > 0 {
		if err := cs.evidenceRepo.CreateBulk(ctx, records); err != nil {
			cs.logger.Error("CONSUMER_SERVICE", "failed to store evidence", map[string]interface{}{
				"image_id": payload.ImageId.String(),
				"error":    err.Error(),
			})
			msg.Nack()
			return
		}
	}

	cs.logger.Info("CONSUMER_SERVICE", "evidence persisted", map[string]interface{}{
		"image_id": payload.ImageId.String(),
		"chunks":   len(records),
	})
	msg.Ack()
}
