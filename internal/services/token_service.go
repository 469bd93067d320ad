package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
	"github.com/hadrian75/campusfound/pkg/crypto"
	"github.com/hadrian75/campusfound/pkg/logger"
	"github.com/hadrian75/campusfound/pkg/mail"
	"github.com/hadrian75/campusfound/pkg/metrics"
)

var (
	// ErrTokenNotFound indicates no token row matched the lookup.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenAlreadyUsed indicates the token was redeemed before.
	ErrTokenAlreadyUsed = errors.New("token already used")
	// ErrTokenExpired indicates the token's validity window has passed.
	ErrTokenExpired = errors.New("token expired")
)

const tokenByteLength = 32

// TokenService issues and redeems email verification and password reset tokens.
type TokenService struct {
	db              *gorm.DB
	mailer          mail.Mailer
	clock           func() time.Time
	verificationTTL time.Duration
	resetTTL        time.Duration
	log             *zap.Logger
}

// TokenServiceOption customises TokenService construction.
type TokenServiceOption func(*TokenService)

// WithTokenClock overrides the time source, used in tests.
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithVerificationTTL overrides the email verification token lifetime.
func WithVerificationTTL(ttl time.Duration) TokenServiceOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.verificationTTL = ttl
		}
	}
}

// WithResetTTL overrides the password reset token lifetime.
func WithResetTTL(ttl time.Duration) TokenServiceOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// NewTokenService constructs a TokenService. The mailer may be nil, in which
// case reset emails are skipped.
func NewTokenService(db *gorm.DB, mailer mail.Mailer, opts ...TokenServiceOption) (*TokenService, error) {
	if db == nil {
		return nil, errors.New("token service requires a database handle")
	}

	svc := &TokenService{
		db:              db,
		mailer:          mailer,
		clock:           time.Now,
		verificationTTL: 30 * time.Minute,
		resetTTL:        30 * time.Minute,
		log:             logger.WithModule("services.token"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// IssueEmailVerification creates a fresh single-use verification token for the user.
func (s *TokenService) IssueEmailVerification(ctx context.Context, userID string) (*models.EmailVerificationToken, error) {
	return s.issueEmailVerification(ensureContext(ctx), s.db, userID)
}

// IssueEmailVerificationTx creates a verification token using the caller's transaction.
func (s *TokenService) IssueEmailVerificationTx(ctx context.Context, tx *gorm.DB, userID string) (*models.EmailVerificationToken, error) {
	if tx == nil {
		tx = s.db
	}
	return s.issueEmailVerification(ensureContext(ctx), tx, userID)
}

func (s *TokenService) issueEmailVerification(ctx context.Context, db *gorm.DB, userID string) (*models.EmailVerificationToken, error) {
	value, err := crypto.GenerateToken(tokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	record := &models.EmailVerificationToken{
		UserID:    userID,
		Token:     value,
		ExpiresAt: s.clock().Add(s.verificationTTL),
	}

	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	return record, nil
}

// VerifyEmail redeems a verification token and activates the owning account.
// The token must belong to the given user, be unused, and be within its window.
func (s *TokenService) VerifyEmail(ctx context.Context, userID, token string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.EmailVerificationToken
		err := tx.Where("user_id = ? AND token = ?", userID, token).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		if err != nil {
			return err
		}

		if record.Used {
			return ErrTokenAlreadyUsed
		}
		if s.clock().After(record.ExpiresAt) {
			return ErrTokenExpired
		}

		if err := tx.Model(&models.EmailVerificationToken{}).
			Where("id = ?", record.ID).
			Update("used", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_active", true).Error
	})

	metrics.ObserveTokenRedemption("verification", err == nil)
	return err
}

// RequestPasswordReset issues a reset token and emails it to the account's
// address. The identifier may be a username or a profile email. The outcome
// is identical whether or not the identifier is registered, so callers cannot
// tell whether an account exists.
func (s *TokenService) RequestPasswordReset(ctx context.Context, identifier string) error {
	ctx = ensureContext(ctx)
	identifier = normalizeEmail(identifier)

	var profile models.CampusProfile
	err := s.db.WithContext(ctx).Where("email = ?", identifier).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.WithContext(ctx).
			Joins("JOIN users ON users.id = campus_profiles.user_id").
			Where("users.username = ?", identifier).
			First(&profile).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	value, err := crypto.GenerateToken(tokenByteLength)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	record := &models.PasswordResetToken{
		UserID:    profile.UserID,
		Token:     value,
		ExpiresAt: s.clock().Add(s.resetTTL),
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, mail.PasswordResetMessage(profile.Email, value)); err != nil {
			s.log.Warn("password reset email not sent", zap.Error(err))
		}
	}

	return nil
}

// ResetPassword redeems a reset token, looked up by its value alone, and
// replaces the owning account's password.
func (s *TokenService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx = ensureContext(ctx)

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.PasswordResetToken
		err := tx.Where("token = ?", token).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		if err != nil {
			return err
		}

		if record.Used {
			return ErrTokenAlreadyUsed
		}
		if s.clock().After(record.ExpiresAt) {
			return ErrTokenExpired
		}

		if err := tx.Model(&models.PasswordResetToken{}).
			Where("id = ?", record.ID).
			Update("used", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", record.UserID).
			Update("password_hash", hash).Error
	})

	metrics.ObserveTokenRedemption("reset", err == nil)
	return err
}

// PruneTokens removes used tokens and tokens whose window has passed.
func (s *TokenService) PruneTokens(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	now := s.clock()

	var removed int64

	res := s.db.WithContext(ctx).
		Where("used = ? OR expires_at < ?", true, now).
		Delete(&models.EmailVerificationToken{})
	if res.Error != nil {
		return removed, res.Error
	}
	removed += res.RowsAffected

	res = s.db.WithContext(ctx).
		Where("used = ? OR expires_at < ?", true, now).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return removed, res.Error
	}
	removed += res.RowsAffected

	return removed, nil
}
