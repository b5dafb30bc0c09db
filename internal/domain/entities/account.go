package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AccountStatus represents the account lifecycle state
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusVerified AccountStatus = "verified"
)

// SignupTokenGrant is the token balance credited to every new account
const SignupTokenGrant = 1200

// SignupTokenValidity is how long the signup token grant stays usable
const SignupTokenValidity = 7 * 24 * time.Hour

// Account represents a user account. Status only ever moves
// pending -> verified. PasswordHash is never serialized.
type Account struct {
	ID                uuid.UUID     `json:"id"`
	Email             string        `json:"email"`
	FullName          string        `json:"fullName"`
	Strasse           string        `json:"strasse"`
	PLZ               string        `json:"plz"`
	Stadt             string        `json:"stadt"`
	Land              string        `json:"land"`
	Firmenname        null.String   `json:"firmenname,omitempty"`
	UstIDNr           null.String   `json:"ustIdNr,omitempty"`
	PasswordHash      string        `json:"-"`
	TokenBalance      int           `json:"tokenBalance"`
	TokensExpireAt    time.Time     `json:"tokensExpireAt"`
	Status            AccountStatus `json:"status"`
	VerificationToken null.String   `json:"-"`
	CredentialVersion int           `json:"-"`
	CreatedAt         time.Time     `json:"createdAt"`
	VerifiedAt        null.Time     `json:"verifiedAt,omitempty"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// RegisterInput represents input for account registration
type RegisterInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Strasse    string `json:"strasse" binding:"required"`
	PLZ        string `json:"plz" binding:"required"`
	Stadt      string `json:"stadt" binding:"required"`
	Land       string `json:"land" binding:"required"`
	Firmenname string `json:"firmenname"`
	UstIDNr    string `json:"ust_idnr"`
}

// LoginInput represents input for login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordInput represents input for redeeming a reset token
type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ChangePasswordInput represents input for changing the password of an
// authenticated account
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}
