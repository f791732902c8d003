package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
	"github.com/jobtrackio/jobtrack-api/pkg/mailer"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// TokenPair is a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// AuthService orchestrates register/login/refresh/me/logout plus profile and
// password updates. Every operation is at most one repository read followed
// by one write; the refresh check-then-write is not transactional (see
// Refresh).
type AuthService struct {
	Repo        repository.UserRepository
	JWT         *helpers.JWTManager
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger, Pub: pub, MailEnabled: mailEnabled}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user, stores its refresh token, and returns user+tokens.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.User, TokenPair, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, TokenPair{}, validationErr("email", "is required")
	}
	if password == "" {
		return nil, TokenPair{}, validationErr("password", "is required")
	}
	if len(password) < MinPasswordLen {
		return nil, TokenPair{}, validationErr("password", "must be at least 6 characters")
	}

	if existing, err := s.Repo.GetByEmail(ctx, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, err
	} else if existing != nil {
		return nil, TokenPair{}, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u := &entity.User{Email: email, Password: hash, Name: strings.TrimSpace(name)}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.sendWelcomeEmail(ctx, u)
	return u, pair, nil
}

// Login authenticates and rotates the stored refresh token, which revokes any
// previously active session for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair (rotate-on-use).
// The stored-token comparison and the subsequent write are two separate
// statements; two refreshes racing on the same token can both succeed if both
// read before either writes. Accepted for a single-user tool.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Me resolves the authenticated user's current record.
func (s *AuthService) Me(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Logout clears the stored refresh token. Unknown users are treated as
// already logged out; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.Repo.SetRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// UpdateProfile changes the display name of the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "is required")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	u.Name = name
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password before writing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return validationErr("password", "current and new password are required")
	}
	if len(newPassword) < MinPasswordLen {
		return validationErr("newPassword", "must be at least 6 characters")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return validationErr("currentPassword", "is incorrect")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Repo.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	u.RefreshToken = refresh
	return TokenPair{AccessToken: access, AccessExpiry: aexp, RefreshToken: refresh, RefreshExpiry: rexp}, nil
}

func (s *AuthService) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
