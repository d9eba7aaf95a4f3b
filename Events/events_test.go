package Events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := New(PaymentRecorded)

	assert.Equal(t, PaymentRecorded, e.Type)
	assert.Len(t, e.ID, 36)
	assert.False(t, e.OccurredAt.IsZero())
	assert.NotEqual(t, e.ID, New(PaymentRecorded).ID)
}

func TestEventJSON(t *testing.T) {
	e := New(TransactionRecorded)
	e.TransactionID = 12
	e.KisanID = 3
	e.Amount = decimal.RequireFromString("2040.50")

	body, err := e.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "transaction.recorded", decoded["type"])
	assert.Equal(t, float64(12), decoded["transaction_id"])
	assert.Equal(t, "2040.5", decoded["amount"])
	assert.NotContains(t, decoded, "payment_id")
}

func TestMemoryPublisher(t *testing.T) {
	m := &Memory{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Publish(context.Background(), New(PaymentRecorded))
		}()
	}
	wg.Wait()

	assert.Len(t, m.Events(), 20)
	assert.NoError(t, Noop{}.Publish(context.Background(), New(PaymentDeleted)))
}
