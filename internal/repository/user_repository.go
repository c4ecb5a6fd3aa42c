package repository

import (
	"context"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListSummaries returns directory entries for every user except excludeID.
	ListSummaries(ctx context.Context, excludeID string, filter DirectoryFilter) ([]*domain.UserSummary, error)
	GetSummary(ctx context.Context, id string) (*domain.UserSummary, error)
}

type DirectoryFilter struct {
	Gender   *domain.Gender
	Religion *string
	MinAge   *int
	MaxAge   *int
	Limit    int
	Offset   int
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// Transactor runs fn in a transaction; repositories called with the ctx passed
// to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
