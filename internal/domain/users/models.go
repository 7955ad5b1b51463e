package users

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's marketplace role
type Role string

const (
	RoleBidder Role = "bidder"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleBidder, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// User carries the fields the sweep cares about. Seller status is leased:
// once SellerUntil passes, the role reverts to bidder.
type User struct {
	ID          uuid.UUID  `db:"id"`
	Email       string     `db:"email"`
	Role        Role       `db:"role"`
	SellerUntil *time.Time `db:"seller_until"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
