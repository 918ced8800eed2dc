package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key/value store for small JSON documents,
// the server-side stand-in for a browser's local storage.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type EventKind string

const (
	EventChat    EventKind = "chat"
	EventCartAdd EventKind = "cart_add"
	EventLogin   EventKind = "login"
	EventLogout  EventKind = "logout"
)

// Event is a single shopper action worth keeping for reports.
// Events are expected to be appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	ShopperID         int64     `json:"shopper_id"`
	Kind              EventKind `json:"kind"`
	ProductID         int       `json:"product_id,omitempty"`
	Quantity          int       `json:"quantity,omitempty"`
	UserMessage       string    `json:"user_message,omitempty"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
}

// Recorder abstracts persistence of activity events.
// LoadEvents should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
