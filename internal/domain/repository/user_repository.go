package repository

import (
	"context"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
)

// UserRepository defines user persistence. Emails are stored lowercased;
// lookups by email expect the caller to have normalized already.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// SetRefreshToken writes the single active refresh token for the user.
	// Pass empty string to clear it (logout).
	SetRefreshToken(ctx context.Context, id int64, token string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
