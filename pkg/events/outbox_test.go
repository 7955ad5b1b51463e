package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewEvent tests outbox event construction
func TestNewEvent(t *testing.T) {
	auctionID := uuid.New()
	payload := map[string]string{"auction_id": auctionID.String(), "amount": "150"}

	event, err := NewEvent(auctionID, "bid.placed", payload)

	require.NoError(t, err)
	assert.Equal(t, auctionID, event.AuctionID)
	assert.Equal(t, "bid.placed", event.EventType)
	assert.Equal(t, OutboxStatusPending, event.Status)
	assert.Nil(t, event.ProcessedAt)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

// TestNewEvent_UnmarshalablePayload tests the marshal failure path
func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(uuid.New(), "bid.placed", make(chan int))

	assert.Error(t, err)
}
