package repositories

import (
	"context"

	"github.com/google/uuid"
	"zyrix.backend/internal/domain/entities"
)

// AccountRepository defines account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*entities.Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// PasswordResetRepository defines password reset request operations
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *entities.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*entities.PasswordReset, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}
