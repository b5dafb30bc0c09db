package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zyrix.backend/internal/config"
	"zyrix.backend/internal/domain/entities"
	domainerrors "zyrix.backend/internal/domain/errors"
	"zyrix.backend/internal/usecases"
	"zyrix.backend/pkg/jwt"
	"zyrix.backend/pkg/logger"
)

// capturingMailer records outbound mail instead of delivering it.
type capturingMailer struct {
	bodies []string
}

func (m *capturingMailer) Send(_ context.Context, _, _, htmlBody string) error {
	m.bodies = append(m.bodies, htmlBody)
	return nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) error { return nil }

var linkTokenRe = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func lastEmailToken(t *testing.T, mailer *capturingMailer) string {
	t.Helper()
	require.NotEmpty(t, mailer.bodies, "expected an email to have been sent")
	match := linkTokenRe.FindStringSubmatch(mailer.bodies[len(mailer.bodies)-1])
	require.Len(t, match, 2, "email body must carry a token link")
	return match[1]
}

// TestAccountLifecycle drives the full journey through real repositories:
// register, verify, login, reset the password, and confirm the old
// session and the spent reset token are both dead.
func TestAccountLifecycle(t *testing.T) {
	logger.Init("production")
	db := newTestDB(t)
	createAccountTable(t, db)
	createPasswordResetTable(t, db)

	mailer := &capturingMailer{}
	sessions := jwt.NewSessionService("flow-secret", 30*24*time.Hour)
	uc := usecases.NewAccountUsecase(
		NewAccountRepository(db),
		NewPasswordResetRepository(db),
		NewUnitOfWork(db),
		mailer,
		allowAllLimiter{},
		sessions,
		config.AccountConfig{
			BaseURL:          "https://app.test",
			ResetTokenExpiry: time.Hour,
			ResetMaxRequests: 3,
			ResetWindow:      time.Hour,
		},
	)
	ctx := context.Background()

	account, delivered, err := uc.Register(ctx, &entities.RegisterInput{
		FullName: "Max Mustermann",
		Email:    "max@x.com",
		Password: "initial-pass",
		Strasse:  "Musterstraße 1",
		PLZ:      "10115",
		Stadt:    "Berlin",
		Land:     "Deutschland",
	})
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, entities.AccountStatusPending, account.Status)
	assert.Equal(t, entities.SignupTokenGrant, account.TokenBalance)

	// Pending accounts cannot log in yet.
	_, err = uc.Login(ctx, &entities.LoginInput{Email: "max@x.com", Password: "initial-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)

	verifyToken := lastEmailToken(t, mailer)
	require.NoError(t, uc.VerifyEmail(ctx, verifyToken))

	// The verification token is consumed on first use.
	assert.ErrorIs(t, uc.VerifyEmail(ctx, verifyToken), domainerrors.ErrTokenInvalid)

	auth, err := uc.Login(ctx, &entities.LoginInput{Email: "max@x.com", Password: "initial-pass"})
	require.NoError(t, err)
	oldSession := auth.Token

	got, err := uc.Authenticate(ctx, oldSession)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	require.NoError(t, uc.RequestPasswordReset(ctx, "max@x.com"))
	resetToken := lastEmailToken(t, mailer)
	require.NotEqual(t, verifyToken, resetToken)

	require.NoError(t, uc.ResetPassword(ctx, &entities.ResetPasswordInput{
		Token:    resetToken,
		Password: "rotated-pass",
	}))

	// Spent token cannot be replayed.
	err = uc.ResetPassword(ctx, &entities.ResetPasswordInput{
		Token:    resetToken,
		Password: "another-pass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)

	// Sessions issued before the reset no longer authenticate.
	_, err = uc.Authenticate(ctx, oldSession)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	// Old password is gone, new one works and yields a live session.
	_, err = uc.Login(ctx, &entities.LoginInput{Email: "max@x.com", Password: "initial-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	auth, err = uc.Login(ctx, &entities.LoginInput{Email: "max@x.com", Password: "rotated-pass"})
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, auth.Token)
	assert.NoError(t, err)
}

func TestAccountLifecycle_UnknownResetAddressStaysQuiet(t *testing.T) {
	logger.Init("production")
	db := newTestDB(t)
	createAccountTable(t, db)
	createPasswordResetTable(t, db)

	mailer := &capturingMailer{}
	uc := usecases.NewAccountUsecase(
		NewAccountRepository(db),
		NewPasswordResetRepository(db),
		NewUnitOfWork(db),
		mailer,
		allowAllLimiter{},
		jwt.NewSessionService("flow-secret", time.Hour),
		config.AccountConfig{BaseURL: "https://app.test", ResetTokenExpiry: time.Hour},
	)

	require.NoError(t, uc.RequestPasswordReset(context.Background(), "nobody@x.com"))
	assert.Empty(t, mailer.bodies)
}
