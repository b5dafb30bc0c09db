package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"zyrix.backend/internal/domain/entities"
	domainerrors "zyrix.backend/internal/domain/errors"
	"zyrix.backend/internal/interfaces/http/middleware"
	"zyrix.backend/internal/interfaces/http/response"
)

// AccountService is the usecase surface the handler depends on
type AccountService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.Account, bool, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, input *entities.ChangePasswordInput) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
}

// AccountHandler handles account lifecycle endpoints
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
	}
}

// Register handles account registration
// POST /api/v1/accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var input entities.RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, delivered, err := h.accounts.Register(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			response.Error(c, domainerrors.Conflict("E-Mail-Adresse bereits registriert"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":        "Registrierung erfolgreich. Bitte bestätigen Sie Ihre E-Mail-Adresse.",
		"emailDelivered": delivered,
		"account": gin.H{
			"id":             account.ID,
			"email":          account.Email,
			"tokenBalance":   account.TokenBalance,
			"tokensExpireAt": account.TokensExpireAt,
		},
	})
}

// VerifyEmail handles email verification
// GET /api/v1/accounts/verify-email?token=
func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.accounts.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, domainerrors.ErrTokenInvalid) {
			response.Error(c, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeTokenInvalid, "Ungültiger oder bereits verwendeter Bestätigungslink", err))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "E-Mail-Adresse erfolgreich bestätigt",
	})
}

// Login handles login
// POST /api/v1/accounts/login
func (h *AccountHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	authResponse, err := h.accounts.Login(c.Request.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrInvalidCredentials):
			response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Ungültige Anmeldedaten", err))
		case errors.Is(err, domainerrors.ErrEmailNotVerified):
			response.Error(c, domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeEmailNotVerified, "E-Mail-Adresse noch nicht bestätigt", err))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Anmeldung erfolgreich",
		"token":   authResponse.Token,
		"account": gin.H{
			"id":           authResponse.Account.ID,
			"fullName":     authResponse.Account.FullName,
			"email":        authResponse.Account.Email,
			"tokenBalance": authResponse.Account.TokenBalance,
		},
	})
}

// RequestPasswordReset handles reset token issuance.
// POST /api/v1/accounts/request-password-reset
// The response is identical whether or not the address exists.
func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Falls die E-Mail-Adresse existiert, wurde ein Reset-Link gesendet",
	})
}

// ResetPassword handles reset token redemption
// POST /api/v1/accounts/reset-password
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), &input); err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrTokenInvalid):
			response.Error(c, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeTokenInvalid, "Ungültiger oder bereits verwendeter Reset-Token", err))
		case errors.Is(err, domainerrors.ErrTokenExpired):
			response.Error(c, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeTokenExpired, "Reset-Token ist abgelaufen", err))
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Passwort erfolgreich geändert",
	})
}

// ChangePassword handles password change for the authenticated account
// POST /api/v1/accounts/change-password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), accountID, &input); err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Aktuelles Passwort ist falsch", err))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Passwort erfolgreich geändert",
	})
}

// GetMe returns the authenticated account summary
// GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	account, err := h.accounts.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Account not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"account": gin.H{
			"id":             account.ID,
			"fullName":       account.FullName,
			"email":          account.Email,
			"status":         account.Status,
			"tokenBalance":   account.TokenBalance,
			"tokensExpireAt": account.TokensExpireAt,
			"createdAt":      account.CreatedAt,
		},
	})
}
