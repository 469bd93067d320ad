package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/pkg/logger"
	"github.com/hadrian75/campusfound/pkg/metrics"
)

var (
	// ErrClaimNotFound indicates no matching claim.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrClaimAlreadyDecided indicates the claim left the Pending state before
	// this decision landed.
	ErrClaimAlreadyDecided = errors.New("claim already decided")
	// ErrInvalidDecision indicates a decision outside Approved/Rejected.
	ErrInvalidDecision = errors.New("invalid claim decision")
	// ErrItemNotClaimable indicates the item is no longer listed for claiming.
	ErrItemNotClaimable = errors.New("item not open for claims")
)

// ClaimService manages ownership claims and their adjudication.
type ClaimService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

// NewClaimService constructs a ClaimService.
func NewClaimService(db *gorm.DB, notifications *NotificationService) (*ClaimService, error) {
	if db == nil {
		return nil, errors.New("claim service requires a database handle")
	}
	if notifications == nil {
		return nil, errors.New("claim service requires a notification service")
	}

	return &ClaimService{
		db:            db,
		notifications: notifications,
		log:           logger.WithModule("services.claim"),
	}, nil
}

// SubmitInput carries the fields for lodging a claim.
type SubmitInput struct {
	ItemID    string
	ClaimedBy string
	Details   string
	ImageURLs []string
}

// Submit lodges a claim with its proof images in one transaction. Claims are
// only accepted against listed items.
func (s *ClaimService) Submit(ctx context.Context, input SubmitInput) (*models.Claim, error) {
	ctx = ensureContext(ctx)

	claim := &models.Claim{
		ItemID:    input.ItemID,
		ClaimedBy: input.ClaimedBy,
		Details:   input.Details,
		Status:    models.ClaimStatusPending,
	}

	var finderID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.First(&item, "id = ?", input.ItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		if !item.IsActive {
			return ErrItemNotClaimable
		}
		finderID = item.FoundBy

		if err := tx.Create(claim).Error; err != nil {
			return err
		}

		for _, url := range input.ImageURLs {
			image := models.ClaimImage{ClaimID: claim.ID, URL: url}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			claim.Images = append(claim.Images, image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.notifications.Create(ctx, finderID,
		"Someone submitted a claim for an item you reported.",
		map[string]any{"item_id": input.ItemID, "claim_id": claim.ID},
	); err != nil {
		s.log.Warn("finder notification not created",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
	}

	return claim, nil
}

// ListByClaimant returns a user's claims, newest first.
func (s *ClaimService) ListByClaimant(ctx context.Context, userID string) ([]models.Claim, error) {
	ctx = ensureContext(ctx)

	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Item").
		Where("claimed_by = ?", userID).
		Order("created_at DESC").
		Find(&claims).Error
	return claims, err
}

// ListPending returns all claims awaiting a decision, oldest first.
func (s *ClaimService) ListPending(ctx context.Context) ([]models.Claim, error) {
	ctx = ensureContext(ctx)

	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Item").
		Where("status = ?", models.ClaimStatusPending).
		Order("created_at ASC").
		Find(&claims).Error
	return claims, err
}

// Get loads a claim with its images.
func (s *ClaimService) Get(ctx context.Context, claimID string) (*models.Claim, error) {
	ctx = ensureContext(ctx)

	var claim models.Claim
	err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Item").
		First(&claim, "id = ?", claimID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// AdjudicationResult reports the outcome of a decision. ItemUpdateErr is set
// when the claim decision committed but the follow-on item transition failed.
type AdjudicationResult struct {
	Claim         *models.Claim
	ItemUpdated   bool
	ItemUpdateErr error
}

// Adjudicate records a terminal decision on a pending claim. The decision is a
// conditional update guarded on the Pending state, so two concurrent decisions
// cannot both win. An approval also moves the item to Claimed; if that
// transition fails the decision stands and the failure is reported in the
// result.
func (s *ClaimService) Adjudicate(ctx context.Context, claimID string, decision models.ClaimStatus) (*AdjudicationResult, error) {
	ctx = ensureContext(ctx)

	if !decision.Terminal() {
		return nil, ErrInvalidDecision
	}

	var claim models.Claim
	err := s.db.WithContext(ctx).First(&claim, "id = ?", claimID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ? AND status = ?", claimID, models.ClaimStatusPending).
		Update("status", decision)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrClaimAlreadyDecided
	}

	claim.Status = decision
	metrics.ObserveClaimDecision(string(decision))

	result := &AdjudicationResult{Claim: &claim}

	if decision == models.ClaimStatusApproved {
		err := s.db.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", claim.ItemID).
			Updates(map[string]any{
				"status":    models.ItemStatusClaimed,
				"is_active": false,
			}).Error
		if err != nil {
			result.ItemUpdateErr = fmt.Errorf("item transition after approval: %w", err)
			s.log.Error("item not transitioned after claim approval",
				zap.String("claim_id", claimID),
				zap.String("item_id", claim.ItemID),
				zap.Error(err))
		} else {
			result.ItemUpdated = true
		}
	}

	message := "Your claim was rejected."
	if decision == models.ClaimStatusApproved {
		message = "Your claim was approved. Please collect the item."
	}
	if _, err := s.notifications.Create(ctx, claim.ClaimedBy, message,
		map[string]any{"claim_id": claimID, "item_id": claim.ItemID, "decision": string(decision)},
	); err != nil {
		s.log.Warn("claimant notification not created",
			zap.String("claim_id", claimID),
			zap.Error(err))
	}

	if decision == models.ClaimStatusApproved {
		var item models.Item
		if err := s.db.WithContext(ctx).Select("found_by").First(&item, "id = ?", claim.ItemID).Error; err != nil {
			s.log.Warn("finder lookup failed after approval",
				zap.String("item_id", claim.ItemID),
				zap.Error(err))
		} else if item.FoundBy != claim.ClaimedBy {
			if _, err := s.notifications.Create(ctx, item.FoundBy,
				"An item you reported has been claimed by its owner.",
				map[string]any{"claim_id": claimID, "item_id": claim.ItemID},
			); err != nil {
				s.log.Warn("finder notification not created",
					zap.String("claim_id", claimID),
					zap.Error(err))
			}
		}
	}

	return result, nil
}
