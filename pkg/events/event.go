package events

import "time"

// Event type codes published on the bus. Subjects are derived from these, so
// renaming one breaks existing durable subscriptions.
const (
	TypeClaimReported    = "CLAIM_REPORTED"
	TypeDocumentIngested = "DOCUMENT_INGESTED"
)

// Event is the contract every published event satisfies.
type Event interface {
	// EventType returns the code for this event, e.g. "CLAIM_REPORTED".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by publishers and rebuilt by
// subscribers from the wire form.
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
