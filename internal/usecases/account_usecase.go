package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"zyrix.backend/internal/config"
	"zyrix.backend/internal/domain/entities"
	domainerrors "zyrix.backend/internal/domain/errors"
	"zyrix.backend/internal/domain/repositories"
	"zyrix.backend/internal/infrastructure/email"
	"zyrix.backend/pkg/crypto"
	"zyrix.backend/pkg/jwt"
	"zyrix.backend/pkg/logger"
	redispkg "zyrix.backend/pkg/redis"
)

// ResetLimiter bounds password reset requests per email address
type ResetLimiter interface {
	Allow(ctx context.Context, email string) error
}

// AccountUsecase orchestrates the account lifecycle: registration, email
// verification, login, password reset and password change.
type AccountUsecase struct {
	accountRepo repositories.AccountRepository
	resetRepo   repositories.PasswordResetRepository
	uow         repositories.UnitOfWork
	mailer      email.Mailer
	limiter     ResetLimiter
	sessions    *jwt.SessionService
	cfg         config.AccountConfig
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(
	accountRepo repositories.AccountRepository,
	resetRepo repositories.PasswordResetRepository,
	uow repositories.UnitOfWork,
	mailer email.Mailer,
	limiter ResetLimiter,
	sessions *jwt.SessionService,
	cfg config.AccountConfig,
) *AccountUsecase {
	return &AccountUsecase{
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		uow:         uow,
		mailer:      mailer,
		limiter:     limiter,
		sessions:    sessions,
		cfg:         cfg,
	}
}

// Register creates a pending account with a fresh verification token and a
// signup token grant, then dispatches the verification email. Delivery
// failure does not roll the account back; the returned bool reports whether
// the email went out.
func (u *AccountUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.Account, bool, error) {
	_, err := u.accountRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, false, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, false, err
	}

	verificationToken, err := crypto.GenerateVerificationToken()
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	account := &entities.Account{
		ID:                uuid.New(),
		Email:             input.Email,
		FullName:          input.FullName,
		Strasse:           input.Strasse,
		PLZ:               input.PLZ,
		Stadt:             input.Stadt,
		Land:              input.Land,
		Firmenname:        null.NewString(input.Firmenname, input.Firmenname != ""),
		UstIDNr:           null.NewString(input.UstIDNr, input.UstIDNr != ""),
		PasswordHash:      passwordHash,
		TokenBalance:      entities.SignupTokenGrant,
		TokensExpireAt:    now.Add(entities.SignupTokenValidity),
		Status:            entities.AccountStatusPending,
		VerificationToken: null.StringFrom(verificationToken),
		CredentialVersion: 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := u.accountRepo.Create(ctx, account); err != nil {
		return nil, false, err
	}

	delivered := true
	if err := u.sendVerificationEmail(ctx, account, verificationToken); err != nil {
		delivered = false
		logger.Warn(ctx, "verification email not delivered",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}

	return account, delivered, nil
}

// VerifyEmail activates the pending account holding the given token.
// Wrong tokens and already-verified accounts are indistinguishable so the
// response leaks nothing about account existence.
func (u *AccountUsecase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domainerrors.ErrTokenInvalid
	}

	account, err := u.accountRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrTokenInvalid
		}
		return err
	}

	if err := u.accountRepo.MarkVerified(ctx, account.ID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrTokenInvalid
		}
		return err
	}

	return nil
}

// Login authenticates a verified account and issues a session token.
// Unknown email and wrong password collapse into ErrInvalidCredentials;
// a pending account with the correct password fails with
// ErrEmailNotVerified.
func (u *AccountUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	account, err := u.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if account.Status != entities.AccountStatusVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	token, err := u.sessions.Issue(account.ID, account.Email, account.CredentialVersion)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		Token:   token,
		Account: account,
	}, nil
}

// RequestPasswordReset mints a reset token for the account behind the email
// and dispatches the reset link. It never reports whether the account
// exists; the caller always sees the same outcome.
func (u *AccountUsecase) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	if err := u.limiter.Allow(ctx, emailAddr); err != nil {
		if errors.Is(err, redispkg.ErrRateLimited) {
			logger.Warn(ctx, "reset request over budget, ignoring")
			return nil
		}
		// Limiter outage fails open: a broken counter must not block
		// account recovery.
		logger.Warn(ctx, "reset limiter unavailable", zap.Error(err))
	}

	account, err := u.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return err
	}

	now := time.Now()
	reset := &entities.PasswordReset{
		ID:        uuid.New(),
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: now.Add(u.cfg.ResetTokenExpiry),
		Used:      false,
		CreatedAt: now,
	}

	if err := u.resetRepo.Create(ctx, reset); err != nil {
		return err
	}

	if err := u.sendResetEmail(ctx, account, token); err != nil {
		logger.Warn(ctx, "reset email not delivered",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword redeems a reset token and replaces the account's password.
// The digest update and the used flag flip share one transaction, and the
// flip asserts used = false, so a token redeems at most once.
func (u *AccountUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	reset, err := u.resetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrTokenInvalid
		}
		return err
	}

	if reset.Used {
		return domainerrors.ErrTokenInvalid
	}
	if time.Now().After(reset.ExpiresAt) {
		return domainerrors.ErrTokenExpired
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return err
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.resetRepo.MarkUsed(txCtx, reset.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrTokenInvalid
			}
			return err
		}
		return u.accountRepo.UpdatePassword(txCtx, reset.AccountID, passwordHash)
	})
}

// ChangePassword replaces the password of an authenticated account after
// re-verifying the current one
func (u *AccountUsecase) ChangePassword(ctx context.Context, accountID uuid.UUID, input *entities.ChangePasswordInput) error {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(input.CurrentPassword, account.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	passwordHash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return u.accountRepo.UpdatePassword(ctx, accountID, passwordHash)
}

// Authenticate validates a session token against the store. A token whose
// credential version trails the account's current one was issued before a
// password change and is rejected.
func (u *AccountUsecase) Authenticate(ctx context.Context, token string) (*entities.Account, error) {
	claims, err := u.sessions.Validate(token)
	if err != nil {
		return nil, err
	}

	account, err := u.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}

	if claims.CredentialVersion != account.CredentialVersion {
		return nil, jwt.ErrInvalidToken
	}

	return account, nil
}

// GetAccountByID gets an account by ID
func (u *AccountUsecase) GetAccountByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	return u.accountRepo.GetByID(ctx, id)
}

func (u *AccountUsecase) sendVerificationEmail(ctx context.Context, account *entities.Account, token string) error {
	link := fmt.Sprintf("%s/verify-email.html?token=%s", u.cfg.BaseURL, token)
	body, err := email.VerificationBody(account.FullName, link)
	if err != nil {
		return err
	}
	return u.mailer.Send(ctx, account.Email, email.VerificationSubject, body)
}

func (u *AccountUsecase) sendResetEmail(ctx context.Context, account *entities.Account, token string) error {
	link := fmt.Sprintf("%s/reset-password.html?token=%s", u.cfg.BaseURL, token)
	body, err := email.PasswordResetBody(account.FullName, link)
	if err != nil {
		return err
	}
	return u.mailer.Send(ctx, account.Email, email.PasswordResetSubject, body)
}
