package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/database/testutil"
	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/pkg/mail"
)

func newAccountService(t *testing.T, db *gorm.DB, mailer *recordingMailer) *AccountService {
	t.Helper()

	tokens, err := NewTokenService(db, nil)
	require.NoError(t, err)

	var m mail.Mailer
	if mailer != nil {
		m = mailer
	}

	svc, err := NewAccountService(db, tokens, m)
	require.NoError(t, err)
	return svc
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Password: "correct-horse",
		FullName: "Alice Tan",
		CampusID: "S123456",
		Email:    "alice@campus.test",
		RoleID:   1,
	}
}

func TestRegisterCreatesInactiveAccountWithToken(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	mailer := &recordingMailer{}
	svc := newAccountService(t, db, mailer)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.False(t, user.IsActive)
	require.NotNil(t, user.Profile)
	require.Equal(t, "alice@campus.test", user.Profile.Email)

	var token models.EmailVerificationToken
	require.NoError(t, db.First(&token, "user_id = ?", user.ID).Error)
	require.False(t, token.Used)

	messages := mailer.messages()
	require.Len(t, messages, 1)
	require.Contains(t, messages[0].Body, token.Token)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	input := validRegisterInput()
	input.Email = "other@campus.test"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterDuplicateEmailLeavesNoPartialRows(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	input := validRegisterInput()
	input.Username = "bob"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrEmailTaken)

	// The second registration must be all-or-nothing.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "bob").Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.EmailVerificationToken{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	input := validRegisterInput()
	input.RoleID = 99
	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestAuthenticateDistinguishesInactiveFromBadCredentials(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "alice", "correct-horse")
	require.ErrorIs(t, err, ErrAccountInactive)

	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "alice").
		Update("is_active", true).Error)

	user, err := svc.Authenticate(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, user.Profile)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	_, err := svc.Authenticate(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCancelPendingRegistration(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, svc.CancelPendingRegistration(context.Background(), "alice"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.CampusProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.EmailVerificationToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)

	// Repeating the cancellation is a no-op.
	require.NoError(t, svc.CancelPendingRegistration(context.Background(), "alice"))
}

func TestCancelPendingRegistrationSkipsActiveAccounts(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	user := createTestUser(t, db, "alice", "alice@campus.test", true)

	require.NoError(t, svc.CancelPendingRegistration(context.Background(), "alice"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	user := createTestUser(t, db, "alice", "alice@campus.test", true)

	profile, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{FullName: "Alice Lim"})
	require.NoError(t, err)
	require.Equal(t, "Alice Lim", profile.FullName)
	require.Equal(t, "S123456", profile.CampusID)

	_, err = svc.UpdateProfile(context.Background(), "missing-id", UpdateProfileInput{FullName: "x"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetAdminAndDeleteUser(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc := newAccountService(t, db, nil)

	user := createTestUser(t, db, "alice", "alice@campus.test", true)

	require.NoError(t, svc.SetAdmin(context.Background(), user.ID, true))

	loaded, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, loaded.IsAdmin)

	require.ErrorIs(t, svc.SetAdmin(context.Background(), "missing-id", true), ErrUserNotFound)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))
	_, err = svc.GetUser(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, svc.DeleteUser(context.Background(), user.ID), ErrUserNotFound)
}
