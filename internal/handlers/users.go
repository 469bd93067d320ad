package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/services"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

// UserHandler serves profile and account administration endpoints.
type UserHandler struct {
	accounts *services.AccountService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(accounts *services.AccountService) (*UserHandler, error) {
	if accounts == nil {
		return nil, errors.New("user handler requires an account service")
	}
	return &UserHandler{accounts: accounts}, nil
}

// Me returns the authenticated user's account and profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, user)
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=128"`
	CampusID string `json:"campus_id" validate:"omitempty,campus_id"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateProfile updates the authenticated user's campus profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, ok := bindAndValidate[updateProfileRequest](c)
	if !ok {
		return
	}

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FullName: req.FullName,
		CampusID: req.CampusID,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, profile)
}

// List returns all accounts. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, users)
}

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// SetAdmin grants or revokes administrator rights. Admin only.
func (h *UserHandler) SetAdmin(c *gin.Context) {
	req, ok := bindAndValidate[setAdminRequest](c)
	if !ok {
		return
	}

	if err := h.accounts.SetAdmin(c.Request.Context(), c.Param("id"), *req.IsAdmin); err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// Delete removes an account. Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
