package events

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

const (
	EventItemCreated = "item_created"
	EventItemUpdated = "item_updated"
	EventItemDeleted = "item_deleted"

	EventBookingCreated   = "booking_created"
	EventBookingUpdated   = "booking_updated"
	EventBookingCancelled = "booking_cancelled"
	EventBookingDeleted   = "booking_deleted"

	EventMovementRegistered = "movement_registered"
)

// AllEventTypes lists every event the console services publish.
var AllEventTypes = []string{
	EventItemCreated, EventItemUpdated, EventItemDeleted,
	EventBookingCreated, EventBookingUpdated, EventBookingCancelled, EventBookingDeleted,
	EventMovementRegistered,
}

// ItemEventPayload is the item snapshot carried by item events.
type ItemEventPayload struct {
	ItemID    string `json:"item_id"`
	Nombre    string `json:"nombre,omitempty"`
	Estado    string `json:"estado,omitempty"`
	Campus    string `json:"campus,omitempty"`
	Edificio  string `json:"edificio,omitempty"`
	Version   int64  `json:"version,omitempty"`
	ChangedBy string `json:"changed_by,omitempty"`
}

// BookingEventPayload describes the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID     string    `json:"booking_id"`
	LaboratorioID string    `json:"laboratorio_id,omitempty"`
	Solicitante   string    `json:"solicitante,omitempty"`
	Estado        string    `json:"estado,omitempty"`
	Date          time.Time `json:"date,omitempty"`
	HoraInicio    string    `json:"hora_inicio,omitempty"`
	HoraFin       string    `json:"hora_fin,omitempty"`
	ChangedBy     string    `json:"changed_by,omitempty"`
}

type MovementEventPayload struct {
	MovementID  string `json:"movement_id"`
	ItemID      string `json:"item_id"`
	Tipo        string `json:"tipo"`
	Responsable string `json:"responsable"`
	ChangedBy   string `json:"changed_by,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	nextID      atomic.Int64
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers handler for every type in AllEventTypes.
func (b *EventBus) SubscribeAll(handler EventHandler) {
	for _, t := range AllEventTypes {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type synchronously and returns
// the joined handler errors. Every handler runs even when one fails.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == 0 {
		event.ID = b.nextID.Add(1)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	return b.Publish(&event)
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
