package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/pkg/crypto"
	"github.com/hadrian75/campusfound/pkg/logger"
	"github.com/hadrian75/campusfound/pkg/mail"
	"github.com/hadrian75/campusfound/pkg/metrics"
)

var (
	// ErrUserNotFound indicates no matching account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates a correct password against an unactivated account.
	ErrAccountInactive = errors.New("account not activated")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnknownRole indicates the campus role id does not exist.
	ErrUnknownRole = errors.New("unknown campus role")
)

// AccountService manages user accounts and campus profiles.
type AccountService struct {
	db     *gorm.DB
	tokens *TokenService
	mailer mail.Mailer
	log    *zap.Logger
}

// NewAccountService constructs an AccountService. The mailer may be nil, in
// which case activation emails are skipped.
func NewAccountService(db *gorm.DB, tokens *TokenService, mailer mail.Mailer) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service requires a database handle")
	}
	if tokens == nil {
		return nil, errors.New("account service requires a token service")
	}

	return &AccountService{
		db:     db,
		tokens: tokens,
		mailer: mailer,
		log:    logger.WithModule("services.account"),
	}, nil
}

// RegisterInput carries the fields required to open an account.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	CampusID string
	Email    string
	RoleID   int
}

// Register creates an inactive account with its campus profile and a pending
// verification token in one transaction. The activation email is sent after
// commit and its failure does not undo the registration.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := normalizeUsername(input.Username)
	email := normalizeEmail(input.Email)

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var (
		user  *models.User
		token *models.EmailVerificationToken
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.CampusRole
		if err := tx.First(&role, "id = ?", input.RoleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownRole
			}
			return err
		}

		user = &models.User{
			Username:     username,
			PasswordHash: hash,
		}
		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrUsernameTaken
			}
			return err
		}

		profile := &models.CampusProfile{
			UserID:   user.ID,
			RoleID:   input.RoleID,
			FullName: input.FullName,
			CampusID: input.CampusID,
			Email:    email,
		}
		if err := tx.Create(profile).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrEmailTaken
			}
			return err
		}
		user.Profile = profile

		var issueErr error
		token, issueErr = s.tokens.IssueEmailVerificationTx(ctx, tx, user.ID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, mail.VerificationMessage(email, token.Token)); err != nil {
			s.log.Warn("activation email not sent",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	return user, nil
}

// Authenticate checks a username/password pair. A correct password against an
// unactivated account yields ErrAccountInactive, distinct from bad credentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Where("username = ?", normalizeUsername(username)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ObserveAuthAttempt("failure")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		metrics.ObserveAuthAttempt("failure")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.ObserveAuthAttempt("inactive")
		return nil, ErrAccountInactive
	}

	metrics.ObserveAuthAttempt("success")
	return &user, nil
}

// CancelPendingRegistration removes an unactivated account together with its
// profile and pending tokens. Cancelling an unknown or already-removed
// registration is a no-op; active accounts are never touched.
func (s *AccountService) CancelPendingRegistration(ctx context.Context, username string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("username = ? AND is_active = ?", normalizeUsername(username), false).
			First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.EmailVerificationToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CampusProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
}

// GetUser loads an account with its campus profile.
func (s *AccountService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfileInput carries the mutable campus profile fields.
type UpdateProfileInput struct {
	FullName string
	CampusID string
	Email    string
}

// UpdateProfile updates the caller's campus profile.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.CampusProfile, error) {
	ctx = ensureContext(ctx)

	var profile models.CampusProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != "" {
		updates["full_name"] = input.FullName
	}
	if input.CampusID != "" {
		updates["campus_id"] = input.CampusID
	}
	if input.Email != "" {
		updates["email"] = normalizeEmail(input.Email)
	}
	if len(updates) == 0 {
		return &profile, nil
	}

	if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &profile, nil
}

// ListUsers returns all accounts with their profiles, newest first.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// SetAdmin grants or revokes administrator rights.
func (s *AccountService) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	ctx = ensureContext(ctx)

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes an account and its dependent rows.
func (s *AccountService) DeleteUser(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.EmailVerificationToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CampusProfile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}
