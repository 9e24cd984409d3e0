package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "feedback.submitted").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for events with no extra behavior.
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

// NewFeedbackSubmitted builds the event published when a user rates an
// itinerary answer.
func NewFeedbackSubmitted(responseId string, rating int, comment string) Event {
	return BaseEvent{
		Type: "feedback.submitted",
		Data: map[string]interface{}{
			"response_id": responseId,
			"rating":      rating,
			"comment":     comment,
		},
		OccurredAt: time.Now(),
	}
}
