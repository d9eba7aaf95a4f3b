package Events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types, also used as AMQP routing keys.
const (
	TransactionRecorded = "transaction.recorded"
	TransactionDeleted  = "transaction.deleted"
	TransactionsEdited  = "transactions.batch_edited"
	PaymentRecorded     = "payment.recorded"
	PaymentDeleted      = "payment.deleted"
	BalanceReconciled   = "balance.reconciled"
)

// Event is a ledger change announced to downstream consumers.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	TransactionID uint            `json:"transaction_id,omitempty"`
	PaymentID     uint            `json:"payment_id,omitempty"`
	KisanID       uint            `json:"kisan_id,omitempty"`
	VyapariID     uint            `json:"vyapari_id,omitempty"`
	PartyID       uint            `json:"party_id,omitempty"`
	PartyType     string          `json:"party_type,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Count         int             `json:"count,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType string) Event {
	return Event{ID: uuid.NewString(), Type: eventType, OccurredAt: time.Now().UTC(), Amount: decimal.Zero}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event, used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Memory keeps published events in order. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *Memory) Close() error { return nil }
