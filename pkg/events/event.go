package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "GENERATION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewGenerationCompleted announces that the pipeline produced a result,
// including which strategy ultimately served it.
func NewGenerationCompleted(operation, methodUsed string, fromCache bool, processingTimeMs int64) Event {
	return BaseEvent{
		Type: "GENERATION_COMPLETED",
		Data: map[string]interface{}{
			"operation":          operation,
			"method_used":        methodUsed,
			"from_cache":         fromCache,
			"processing_time_ms": processingTimeMs,
		},
		OccurredAt: time.Now(),
	}
}
