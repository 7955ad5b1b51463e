package autobids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBidStatus_String tests the String method of BidStatus
func TestBidStatus_String(t *testing.T) {
	assert.Equal(t, "valid", BidStatusValid.String())
	assert.Equal(t, "rejected", BidStatusRejected.String())
	assert.Equal(t, "cancelled", BidStatusCancelled.String())
}

// TestBidStatus_IsValid tests the IsValid method of BidStatus
func TestBidStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status BidStatus
		want   bool
	}{
		{
			name:   "valid status - valid",
			status: BidStatusValid,
			want:   true,
		},
		{
			name:   "valid status - rejected",
			status: BidStatusRejected,
			want:   true,
		},
		{
			name:   "valid status - cancelled",
			status: BidStatusCancelled,
			want:   true,
		},
		{
			name:   "invalid status - unknown",
			status: BidStatus("expired"),
			want:   false,
		},
		{
			name:   "invalid status - empty string",
			status: BidStatus(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}
