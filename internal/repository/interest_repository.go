package repository

import (
	"context"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
)

type InterestRepository interface {
	Create(ctx context.Context, interest *domain.Interest) error
	GetByID(ctx context.Context, id string) (*domain.Interest, error)
	// GetActiveBetween returns the pending or accepted interest between two users in either direction.
	GetActiveBetween(ctx context.Context, user1ID, user2ID string) (*domain.Interest, error)
	ListSent(ctx context.Context, userID string, status *domain.InterestStatus) ([]*domain.Interest, error)
	ListReceived(ctx context.Context, userID string, status *domain.InterestStatus) ([]*domain.Interest, error)
	ListAccepted(ctx context.Context, userID string) ([]*domain.Interest, error)
	// ListInvolving returns every interest where userID is sender or recipient.
	ListInvolving(ctx context.Context, userID string) ([]*domain.Interest, error)
	CountAccepted(ctx context.Context, userID string) (int, error)
	CountActiveSent(ctx context.Context, userID string) (int, error)
	ExistsAccepted(ctx context.Context, user1ID, user2ID string) (bool, error)
	// TransitionFromPending moves a pending interest to status. Callers read the
	// interest first, so a write that matches no row means it changed or was
	// withdrawn since: domain.ErrInterestNotPending.
	TransitionFromPending(ctx context.Context, id string, status domain.InterestStatus) (*domain.Interest, error)
	// DeletePending removes a pending interest; domain.ErrInterestNotPending when
	// no pending row matches.
	DeletePending(ctx context.Context, id string) error
}
