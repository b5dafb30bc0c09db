package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	domainerrors "zyrix.backend/internal/domain/errors"
	"zyrix.backend/internal/domain/entities"
	"zyrix.backend/internal/infrastructure/models"
)

// AccountRepository implements account data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	m := &models.Account{
		ID:                account.ID,
		Email:             account.Email,
		FullName:          account.FullName,
		Strasse:           account.Strasse,
		PLZ:               account.PLZ,
		Stadt:             account.Stadt,
		Land:              account.Land,
		Firmenname:        account.Firmenname.Ptr(),
		UstIDNr:           account.UstIDNr.Ptr(),
		PasswordHash:      account.PasswordHash,
		TokenBalance:      account.TokenBalance,
		TokensExpireAt:    account.TokensExpireAt,
		Status:            string(account.Status),
		VerificationToken: account.VerificationToken.Ptr(),
		CredentialVersion: account.CredentialVersion,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// GetByEmail gets an account by email (case-sensitive exact match)
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// GetByVerificationToken gets a pending account by its verification token
func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string) (*entities.Account, error) {
	var m models.Account
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("verification_token = ? AND status = ?", token, string(entities.AccountStatusPending)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// MarkVerified activates a pending account: sets status, stamps verified_at
// and nulls the verification token so the value can never match again.
func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND status = ?", id, string(entities.AccountStatusPending)).
		Updates(map[string]interface{}{
			"status":             string(entities.AccountStatusVerified),
			"verification_token": nil,
			"verified_at":        now,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored digest and bumps the credential
// version so outstanding session tokens go stale.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"credential_version": gorm.Expr("credential_version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toAccountEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:                m.ID,
		Email:             m.Email,
		FullName:          m.FullName,
		Strasse:           m.Strasse,
		PLZ:               m.PLZ,
		Stadt:             m.Stadt,
		Land:              m.Land,
		Firmenname:        null.StringFromPtr(m.Firmenname),
		UstIDNr:           null.StringFromPtr(m.UstIDNr),
		PasswordHash:      m.PasswordHash,
		TokenBalance:      m.TokenBalance,
		TokensExpireAt:    m.TokensExpireAt,
		Status:            entities.AccountStatus(m.Status),
		VerificationToken: null.StringFromPtr(m.VerificationToken),
		CredentialVersion: m.CredentialVersion,
		CreatedAt:         m.CreatedAt,
		VerifiedAt:        null.TimeFromPtr(m.VerifiedAt),
		UpdatedAt:         m.UpdatedAt,
	}
}
