package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/internal/services"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

// ItemHandler serves item reporting and lifecycle endpoints.
type ItemHandler struct {
	items *services.ItemService
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(items *services.ItemService) (*ItemHandler, error) {
	if items == nil {
		return nil, errors.New("item handler requires an item service")
	}
	return &ItemHandler{items: items}, nil
}

type reportItemRequest struct {
	Name        string   `json:"name" validate:"required,max=128"`
	Description string   `json:"description" validate:"max=2048"`
	Location    string   `json:"location" validate:"required,max=128"`
	ImageURLs   []string `json:"image_urls" validate:"dive,url"`
}

// Report records a found item for the authenticated user.
func (h *ItemHandler) Report(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req, ok := bindAndValidate[reportItemRequest](c)
	if !ok {
		return
	}

	item, err := h.items.Report(c.Request.Context(), services.ReportInput{
		FoundBy:     userID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.Created(c, item)
}

// List returns currently listed items.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.items.ListFound(c.Request.Context())
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, items)
}

// ListMine returns the items reported by the authenticated user.
func (h *ItemHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.items.ListByFinder(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, items)
}

// Get returns a single item.
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, toAppError(err))
		return
	}
	response.OK(c, item)
}

type updateItemStatusRequest struct {
	Status models.ItemStatus `json:"status" validate:"required"`
}

// UpdateStatus moves an item to a new lifecycle state. Admin only.
func (h *ItemHandler) UpdateStatus(c *gin.Context) {
	req, ok := bindAndValidate[updateItemStatusRequest](c)
	if !ok {
		return
	}

	if err := h.items.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, toAppError(err))
		return
	}

	response.OK(c, gin.H{"updated": true})
}
