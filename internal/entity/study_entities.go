package entity

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is one prior study session a user can ground new requests on.
type StudySession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Summary   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// EvidenceRecord is one persisted chunk of extracted text with its
// confidence and source-location metadata.
type EvidenceRecord struct {
	Id          uuid.UUID
	ImageId     uuid.UUID
	UserId      uuid.UUID
	Text        string
	Confidence  float64
	ContentType string // text | equation | diagram | mixed
	ChunkIndex  int
	Offset      int
	Region      string
	Method      string // which extraction path produced it
	CreatedAt   time.Time
}

// ChatMessage is one entry of a chat transcript.
type ChatMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Chat      string
	CreatedAt time.Time
}
