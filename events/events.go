package events

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"notoc/models"
)

// EventType identifies the kind of domain event.
type EventType string

const (
	EventTypeTransactionRecorded EventType = "transaction_recorded"
	EventTypeTransactionDeleted  EventType = "transaction_deleted"
	EventTypeDebtorCreated       EventType = "debtor_created"
)

// Event is the base interface for all domain events.
type Event interface {
	Type() EventType
}

// TransactionRecordedEvent fires after a debt or credit entry is committed.
type TransactionRecordedEvent struct {
	UserID          int64
	DebtorID        int64
	DebtorName      string
	TransactionID   int64
	TransactionType models.TransactionType
	Amount          decimal.Decimal
	NewBalance      decimal.Decimal
}

func (e TransactionRecordedEvent) Type() EventType { return EventTypeTransactionRecorded }

// TransactionDeletedEvent fires after an ownership-checked deletion commits.
type TransactionDeletedEvent struct {
	UserID        int64
	DebtorID      int64
	TransactionID int64
}

func (e TransactionDeletedEvent) Type() EventType { return EventTypeTransactionDeleted }

// DebtorCreatedEvent fires when a new debtor enters a user's contact set.
type DebtorCreatedEvent struct {
	UserID   int64
	DebtorID int64
	Name     string
}

func (e DebtorCreatedEvent) Type() EventType { return EventTypeDebtorCreated }

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber cannot block the caller.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events raised inside a unit of work and forwards
// them to the real bus only after the database transaction commits. Rollback
// discards them.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush.
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit; events
// are emitted on a background context so they outlive the transaction's.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		log.WithField("eventType", ev.Type()).Debug("Flushing committed event")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
