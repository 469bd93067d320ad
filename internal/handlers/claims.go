package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/internal/services"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

// ClaimHandler serves claim submission and adjudication endpoints.
type ClaimHandler struct {
	claims *services.ClaimService
}

// NewClaimHandler constructs a ClaimHandler.
func NewClaimHandler(claims *services.ClaimService) (*ClaimHandler, error) {
	if claims == nil {
		return nil, errors.New("claim handler requires a claim service")
	}
	return &ClaimHandler{claims: claims}, nil
}

type submitClaimRequest struct {
	ItemID    string   `json:"item_id" validate:"required"`
	Details   string   `json:"details" validate:"max=2048"`
	ImageURLs []string `json:"image_urls" validate:"dive,url"`
}

// Submit lodges a claim for the authenticated user.
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, ok := bindAndValidate[submitClaimRequest](c)
	if !ok {
		return
	}

	claim, err := h.claims.Submit(c.Request.Context(), services.SubmitInput{
		ItemID:    req.ItemID,
		ClaimedBy: userID,
		Details:   req.Details,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.Created(c, claim)
}

// ListMine returns the authenticated user's claims.
func (h *ClaimHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	claims, err := h.claims.ListByClaimant(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, claims)
}

// ListPending returns claims awaiting a decision. Admin only.
func (h *ClaimHandler) ListPending(c *gin.Context) {
	claims, err := h.claims.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, claims)
}

type adjudicateRequest struct {
	Decision models.ClaimStatus `json:"decision" validate:"required"`
}

// Adjudicate records a terminal decision on a claim. Admin only. When the
// decision committed but the item transition failed, the response flags the
// follow-up instead of reporting failure.
func (h *ClaimHandler) Adjudicate(c *gin.Context) {
	req, ok := bindAndValidate[adjudicateRequest](c)
	if !ok {
		return
	}

	result, err := h.claims.Adjudicate(c.Request.Context(), c.Param("id"), req.Decision)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	payload := gin.H{
		"claim":        result.Claim,
		"item_updated": result.ItemUpdated,
	}
	if result.ItemUpdateErr != nil {
		payload["item_update_pending"] = true
	}

	response.OK(c, payload)
}
