package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestSessionKey tests the Redis key layout for sessions
func TestSessionKey(t *testing.T) {
	userID := uuid.MustParse("3d6f0ed3-70c2-4c8f-b50d-4c9f9d6f6b8e")

	assert.Equal(t, "session:3d6f0ed3-70c2-4c8f-b50d-4c9f9d6f6b8e", SessionKey(userID))
}
