package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
)

var (
	// ErrItemNotFound indicates no matching item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItemStatus indicates a status value outside the enum.
	ErrInvalidItemStatus = errors.New("invalid item status")
)

// ItemService manages reported items and their lifecycle.
type ItemService struct {
	db *gorm.DB
}

// NewItemService constructs an ItemService.
func NewItemService(db *gorm.DB) (*ItemService, error) {
	if db == nil {
		return nil, errors.New("item service requires a database handle")
	}
	return &ItemService{db: db}, nil
}

// ReportInput carries the fields for reporting a found item.
type ReportInput struct {
	FoundBy     string
	Name        string
	Description string
	Location    string
	ImageURLs   []string
}

// Report creates an item with its images in one transaction. New items start
// in the Found state and are listed.
func (s *ItemService) Report(ctx context.Context, input ReportInput) (*models.Item, error) {
	ctx = ensureContext(ctx)

	item := &models.Item{
		FoundBy:     input.FoundBy,
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Status:      models.ItemStatusFound,
		IsActive:    true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		for _, url := range input.ImageURLs {
			image := models.ItemImage{ItemID: item.ID, URL: url}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			item.Images = append(item.Images, image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListFound returns listed items, newest first.
func (s *ItemService) ListFound(ctx context.Context) ([]models.Item, error) {
	ctx = ensureContext(ctx)

	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Finder").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ListByFinder returns the items a user reported, newest first.
func (s *ItemService) ListByFinder(ctx context.Context, userID string) ([]models.Item, error) {
	ctx = ensureContext(ctx)

	var items []models.Item
	err := s.db.WithContext(ctx).
		Preload("Images").
		Where("found_by = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Get loads an item with its images.
func (s *ItemService) Get(ctx context.Context, itemID string) (*models.Item, error) {
	ctx = ensureContext(ctx)

	var item models.Item
	err := s.db.WithContext(ctx).Preload("Images").First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatus moves an item to the given lifecycle state. The listing flag is
// derived from the new status, never set independently.
func (s *ItemService) UpdateStatus(ctx context.Context, itemID string, status models.ItemStatus) error {
	ctx = ensureContext(ctx)

	if !status.Valid() {
		return ErrInvalidItemStatus
	}

	res := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"status":    status,
			"is_active": status.Active(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
