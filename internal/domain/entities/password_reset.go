package entities

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset represents one reset request. Rows are append-only: a
// redeemed request keeps its row with Used set true, it is never deleted.
type PasswordReset struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

// Redeemable reports whether the request can still be redeemed at now
func (p *PasswordReset) Redeemable(now time.Time) bool {
	return !p.Used && !now.After(p.ExpiresAt)
}
