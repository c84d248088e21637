package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EvidenceRecord struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ImageId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Text        string         `gorm:"type:text;not null"`
	Confidence  float64        `gorm:"type:decimal(4,3);not null"`
	ContentType string         `gorm:"type:varchar(20);not null;default:'text'"`
	Locator     datatypes.JSON `gorm:"type:jsonb"`
	Method      string         `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (EvidenceRecord) TableName() string {
	return "evidence_records"
}
