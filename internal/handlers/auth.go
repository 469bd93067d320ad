package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/auth"
	"github.com/hadrian75/campusfound/internal/services"
	"github.com/hadrian75/campusfound/pkg/response"
)

// AuthHandler serves registration, activation and login endpoints.
type AuthHandler struct {
	accounts *services.AccountService
	tokens   *services.TokenService
	jwt      *auth.JWTService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(accounts *services.AccountService, tokens *services.TokenService, jwt *auth.JWTService) (*AuthHandler, error) {
	if accounts == nil || tokens == nil || jwt == nil {
		return nil, errors.New("auth handler requires account, token and jwt services")
	}
	return &AuthHandler{accounts: accounts, tokens: tokens, jwt: jwt}, nil
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,max=128"`
	CampusID string `json:"campus_id" validate:"required,campus_id"`
	Email    string `json:"email" validate:"required,email"`
	RoleID   int    `json:"role_id" validate:"required,min=1"`
}

// Register opens an inactive account and emails the activation code.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindAndValidate[registerRequest](c)
	if !ok {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		CampusID: req.CampusID,
		Email:    req.Email,
		RoleID:   req.RoleID,
	})
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.Created(c, user)
}

type verifyEmailRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

// VerifyEmail redeems an activation token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	req, ok := bindAndValidate[verifyEmailRequest](c)
	if !ok {
		return
	}

	if err := h.tokens.VerifyEmail(c.Request.Context(), req.UserID, req.Token); err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{"activated": true})
}

type cancelRegistrationRequest struct {
	Username string `json:"username" validate:"required"`
}

// CancelRegistration abandons a pending registration.
func (h *AuthHandler) CancelRegistration(c *gin.Context) {
	req, ok := bindAndValidate[cancelRegistrationRequest](c)
	if !ok {
		return
	}

	if err := h.accounts.CancelPendingRegistration(c.Request.Context(), req.Username); err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{"cancelled": true})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindAndValidate[loginRequest](c)
	if !ok {
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{
		"token": token,
		"user":  user,
	})
}

type forgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
}

// ForgotPassword issues a reset token for a username or email. The response
// does not reveal whether the identifier is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	req, ok := bindAndValidate[forgotPasswordRequest](c)
	if !ok {
		return
	}

	if err := h.tokens.RequestPasswordReset(c.Request.Context(), req.Identifier); err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{
		"message": "If the account exists, a reset code has been sent.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// ResetPassword redeems a reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	req, ok := bindAndValidate[resetPasswordRequest](c)
	if !ok {
		return
	}

	if err := h.tokens.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{"reset": true})
}
