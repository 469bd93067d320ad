package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/database/testutil"
	"github.com/hadrian75/campusfound/internal/models"
)

type claimFixture struct {
	claims   *ClaimService
	items    *ItemService
	notifs   *NotificationService
	finder   *models.User
	claimant *models.User
	item     *models.Item
}

func newClaimFixture(t *testing.T, db *gorm.DB) *claimFixture {
	t.Helper()

	notifs, err := NewNotificationService(db)
	require.NoError(t, err)
	claims, err := NewClaimService(db, notifs)
	require.NoError(t, err)
	items, err := NewItemService(db)
	require.NoError(t, err)

	finder := createTestUser(t, db, "finder", "finder@campus.test", true)
	claimant := createTestUser(t, db, "claimant", "claimant@campus.test", true)

	item, err := items.Report(context.Background(), ReportInput{
		FoundBy:  finder.ID,
		Name:     "Black backpack",
		Location: "Bus stop",
	})
	require.NoError(t, err)

	return &claimFixture{
		claims:   claims,
		items:    items,
		notifs:   notifs,
		finder:   finder,
		claimant: claimant,
		item:     item,
	}
}

func TestSubmitClaimNotifiesFinder(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	claim, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
		Details:   "Has my laptop and charger inside",
		ImageURLs: []string{"https://img.test/proof.jpg"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ClaimStatusPending, claim.Status)
	require.Len(t, claim.Images, 1)

	notifications, err := fx.notifs.ListForUser(context.Background(), fx.finder.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
}

func TestSubmitClaimRejectsUnlistedItem(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	require.NoError(t, fx.items.UpdateStatus(context.Background(), fx.item.ID, models.ItemStatusClaimed))

	_, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.ErrorIs(t, err, ErrItemNotClaimable)

	_, err = fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    "missing-item",
		ClaimedBy: fx.claimant.ID,
	})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestAdjudicateApprovalTransitionsItem(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	proofURLs := []string{"https://img.test/receipt.jpg", "https://img.test/serial.jpg"}
	claim, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
		ImageURLs: proofURLs,
	})
	require.NoError(t, err)

	result, err := fx.claims.Adjudicate(context.Background(), claim.ID, models.ClaimStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ClaimStatusApproved, result.Claim.Status)
	require.True(t, result.ItemUpdated)
	require.NoError(t, result.ItemUpdateErr)

	item, err := fx.items.Get(context.Background(), fx.item.ID)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusClaimed, item.Status)
	require.False(t, item.IsActive)

	notifications, err := fx.notifs.ListForUser(context.Background(), fx.claimant.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message, "approved")

	// The finder is told twice: once at submission, once at approval.
	finderNotifs, err := fx.notifs.ListForUser(context.Background(), fx.finder.ID, false)
	require.NoError(t, err)
	require.Len(t, finderNotifs, 2)

	mine, err := fx.claims.ListByClaimant(context.Background(), fx.claimant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	urls := make([]string, 0, len(mine[0].Images))
	for _, img := range mine[0].Images {
		urls = append(urls, img.URL)
	}
	require.ElementsMatch(t, proofURLs, urls)
}

func TestAdjudicateRejectionLeavesItemListed(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	claim, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.NoError(t, err)

	result, err := fx.claims.Adjudicate(context.Background(), claim.ID, models.ClaimStatusRejected)
	require.NoError(t, err)
	require.Equal(t, models.ClaimStatusRejected, result.Claim.Status)
	require.False(t, result.ItemUpdated)

	item, err := fx.items.Get(context.Background(), fx.item.ID)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusFound, item.Status)
	require.True(t, item.IsActive)

	notifications, err := fx.notifs.ListForUser(context.Background(), fx.claimant.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message, "rejected")
}

func TestAdjudicateIsSingleShot(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	claim, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.NoError(t, err)

	_, err = fx.claims.Adjudicate(context.Background(), claim.ID, models.ClaimStatusRejected)
	require.NoError(t, err)

	_, err = fx.claims.Adjudicate(context.Background(), claim.ID, models.ClaimStatusApproved)
	require.ErrorIs(t, err, ErrClaimAlreadyDecided)

	// The losing decision must not touch the item.
	item, err := fx.items.Get(context.Background(), fx.item.ID)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusFound, item.Status)
}

func TestAdjudicateValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	_, err := fx.claims.Adjudicate(context.Background(), "missing-claim", models.ClaimStatusApproved)
	require.ErrorIs(t, err, ErrClaimNotFound)

	claim, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.NoError(t, err)

	_, err = fx.claims.Adjudicate(context.Background(), claim.ID, models.ClaimStatusPending)
	require.ErrorIs(t, err, ErrInvalidDecision)
}

func TestListPendingAndByClaimant(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	fx := newClaimFixture(t, db)

	first, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.NoError(t, err)

	second, err := fx.claims.Submit(context.Background(), SubmitInput{
		ItemID:    fx.item.ID,
		ClaimedBy: fx.claimant.ID,
	})
	require.NoError(t, err)

	_, err = fx.claims.Adjudicate(context.Background(), first.ID, models.ClaimStatusRejected)
	require.NoError(t, err)

	pending, err := fx.claims.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.ID, pending[0].ID)

	mine, err := fx.claims.ListByClaimant(context.Background(), fx.claimant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}
