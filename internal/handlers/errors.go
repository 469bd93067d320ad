package handlers

import (
	"errors"
	"net/http"

	"github.com/hadrian75/campusfound/internal/services"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
)

// toAppError maps service sentinels onto API error responses.
func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrInvalidCredentials):
		return appErrors.ErrInvalidCredentials
	case errors.Is(err, services.ErrAccountInactive):
		return appErrors.New("ACCOUNT_INACTIVE", "Account has not been activated", http.StatusForbidden)
	case errors.Is(err, services.ErrUsernameTaken):
		return appErrors.New("USERNAME_TAKEN", "Username already taken", http.StatusConflict)
	case errors.Is(err, services.ErrEmailTaken):
		return appErrors.New("EMAIL_TAKEN", "Email already registered", http.StatusConflict)
	case errors.Is(err, services.ErrUnknownRole):
		return appErrors.NewBadRequest("Unknown campus role")
	case errors.Is(err, services.ErrTokenNotFound):
		return appErrors.New("TOKEN_INVALID", "Token not recognised", http.StatusBadRequest)
	case errors.Is(err, services.ErrTokenAlreadyUsed):
		return appErrors.New("TOKEN_USED", "Token has already been used", http.StatusBadRequest)
	case errors.Is(err, services.ErrTokenExpired):
		return appErrors.New("TOKEN_EXPIRED", "Token has expired", http.StatusBadRequest)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrClaimNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return appErrors.ErrNotFound
	case errors.Is(err, services.ErrItemNotClaimable):
		return appErrors.New("ITEM_NOT_CLAIMABLE", "Item is not open for claims", http.StatusConflict)
	case errors.Is(err, services.ErrClaimAlreadyDecided):
		return appErrors.New("CLAIM_DECIDED", "Claim has already been decided", http.StatusConflict)
	case errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidItemStatus):
		return appErrors.NewBadRequest("Invalid status value")
	default:
		return appErrors.ErrInternalServer.WithInternal(err)
	}
}
