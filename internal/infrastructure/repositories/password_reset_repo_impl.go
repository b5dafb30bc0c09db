package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	domainerrors "zyrix.backend/internal/domain/errors"
	"zyrix.backend/internal/domain/entities"
	"zyrix.backend/internal/infrastructure/models"
)

// PasswordResetRepository implements password reset request operations
type PasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create creates a new password reset request
func (r *PasswordResetRepository) Create(ctx context.Context, reset *entities.PasswordReset) error {
	m := &models.PasswordReset{
		ID:        reset.ID,
		AccountID: reset.AccountID,
		Token:     reset.Token,
		ExpiresAt: reset.ExpiresAt,
		Used:      reset.Used,
		CreatedAt: reset.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByToken gets a reset request by its token
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*entities.PasswordReset, error) {
	var m models.PasswordReset
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.PasswordReset{
		ID:        m.ID,
		AccountID: m.AccountID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}, nil
}

// MarkUsed marks a reset request as redeemed. The predicate asserts
// used = false so concurrent redemptions of the same token race on the
// row and exactly one wins.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
