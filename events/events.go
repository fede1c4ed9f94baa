package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"reverb/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGoldCredited     EventType = "gold_credited"
	EventTypeBetPlaced        EventType = "bet_placed"
	EventTypePayoutSettled    EventType = "payout_settled"
	EventTypeLotteryCompleted EventType = "lottery_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GoldCreditedEvent fires when an officer credits gold to a user
type GoldCreditedEvent struct {
	UserID     int64
	OfficerID  int64
	Amount     int64
	NewBalance int64
}

func (e GoldCreditedEvent) Type() EventType {
	return EventTypeGoldCredited
}

// BetPlacedEvent fires after a bet and its ledger entries are committed
type BetPlacedEvent struct {
	UserID     int64
	BetID      int64
	Game       models.Game
	Wager      int64
	Payout     int64
	NewBalance int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// PayoutSettledEvent fires when an officer settles a payout request
type PayoutSettledEvent struct {
	PayoutID   int64
	UserID     int64
	OfficerID  int64
	Amount     int64
	NewBalance int64
}

func (e PayoutSettledEvent) Type() EventType {
	return EventTypePayoutSettled
}

// LotteryCompletedEvent fires when the scheduler closes a lottery.
// Winner fields are zero when the lottery sold no tickets.
type LotteryCompletedEvent struct {
	LotteryID     int64
	LotteryNumber int64
	WinnerUserID  int64
	TotalPot      int64
	GuildCut      int64
	Payout        int64
}

func (e LotteryCompletedEvent) Type() EventType {
	return EventTypeLotteryCompleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Handlers run asynchronously so a slow Discord call never blocks the
	// operation that produced the event
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

// TransactionalBus stashes events published during a unit of work and only
// forwards them to the real bus after the database commit succeeds. Rolled
// back transactions discard their events, so listeners never observe a
// financial effect that was reversed.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops all pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
