package log

import (
	"time"
)

// Event represents an engine log event captured during dispatch or
// subscription lifecycle. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ObservableID uniquely identifies the observable (UUID).
	ObservableID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// SubscriptionID identifies the subscription involved, if any.
	SubscriptionID string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Subscribe   *SubscribeEvent   `cbor:"5,keyasint,omitempty"` // Subscription created
	Dispatch    *DispatchEvent    `cbor:"6,keyasint,omitempty"` // Value delivered
	Drop        *DropEvent        `cbor:"7,keyasint,omitempty"` // Value suppressed
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"` // Observable state
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySubscribe indicates a subscription was created.
	CategorySubscribe Category = 0
	// CategoryUnsubscribe indicates a subscription was removed.
	CategoryUnsubscribe Category = 1
	// CategoryDispatch indicates a value was delivered to a subscriber.
	CategoryDispatch Category = 2
	// CategoryDrop indicates a value was suppressed by rate limiting.
	CategoryDrop Category = 3
	// CategoryState indicates an observable state change (batch, close).
	CategoryState Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySubscribe:
		return "SUBSCRIBE"
	case CategoryUnsubscribe:
		return "UNSUBSCRIBE"
	case CategoryDispatch:
		return "DISPATCH"
	case CategoryDrop:
		return "DROP"
	case CategoryState:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// SubscribeEvent carries the configuration of a new subscription.
type SubscribeEvent struct {
	// Priority is the subscription's priority name (HIGH/NORMAL/LOW).
	Priority string `cbor:"1,keyasint"`

	// RateLimit is the rate-limit mode name (NONE/THROTTLE/DEBOUNCE).
	RateLimit string `cbor:"2,keyasint"`

	// Interval is the rate-limit window, zero when RateLimit is NONE.
	Interval time.Duration `cbor:"3,keyasint,omitempty"`

	// Deferred is true when delivery is handed off to an executor.
	Deferred bool `cbor:"4,keyasint,omitempty"`
}

// DispatchEvent carries details of a delivered value.
type DispatchEvent struct {
	// Priority is the receiving subscription's priority name.
	Priority string `cbor:"1,keyasint"`

	// Value is a human-readable rendering of the delivered value,
	// truncated to MaxValueLen.
	Value string `cbor:"2,keyasint,omitempty"`

	// Initial is true for the priming delivery made by Subscribe.
	Initial bool `cbor:"3,keyasint,omitempty"`

	// Trailing is true when the delivery came from a debounce timer.
	Trailing bool `cbor:"4,keyasint,omitempty"`
}

// DropEvent carries details of a suppressed value.
type DropEvent struct {
	// Mode is the rate-limit mode that suppressed the value.
	Mode string `cbor:"1,keyasint"`

	// Superseded is true when a newer value replaced a pending
	// debounce delivery (the pending value is the one dropped).
	Superseded bool `cbor:"2,keyasint,omitempty"`
}

// StateChangeEvent carries an observable state transition.
type StateChangeEvent struct {
	// OldState is the previous state name.
	OldState string `cbor:"1,keyasint"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// Reason describes why the state changed.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// MaxValueLen caps the rendered value stored in DispatchEvent.Value.
const MaxValueLen = 256

// TruncateValue trims a rendered value to MaxValueLen.
func TruncateValue(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	return s[:MaxValueLen]
}

// NewEvent creates an event with the current timestamp.
func NewEvent(observableID string, category Category) Event {
	return Event{
		Timestamp:    time.Now(),
		ObservableID: observableID,
		Category:     category,
	}
}
