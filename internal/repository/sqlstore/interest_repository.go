package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const interestColumns = `id, from_user_id, to_user_id, status, message, pair_key, created_at, updated_at`

type interestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) repository.InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	if interest.ID == "" {
		interest.ID = uuid.NewString()
	}
	if interest.CreatedAt.IsZero() {
		interest.CreatedAt = time.Now().UTC()
	}
	interest.PairKey = domain.PairKey(interest.FromUserID, interest.ToUserID)

	query := `
		INSERT INTO interests (id, from_user_id, to_user_id, status, message, pair_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(ctx, r.db, query,
		interest.ID, interest.FromUserID, interest.ToUserID, interest.Status,
		interest.Message, interest.PairKey, interest.CreatedAt,
	)
	if isUniqueViolation(err) {
		// the partial unique index on pair_key lost a race with a concurrent send
		return domain.ErrActiveInterestExists
	}
	return mapError(err)
}

func (r *interestRepository) GetByID(ctx context.Context, id string) (*domain.Interest, error) {
	var interest domain.Interest
	query := `SELECT ` + interestColumns + ` FROM interests WHERE id = ?`
	err := get(ctx, r.db, &interest, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInterestNotFound
		}
		return nil, mapError(err)
	}
	return &interest, nil
}

func (r *interestRepository) GetActiveBetween(ctx context.Context, user1ID, user2ID string) (*domain.Interest, error) {
	var interest domain.Interest
	query := `
		SELECT ` + interestColumns + ` FROM interests
		WHERE pair_key = ? AND status IN (?, ?)
		LIMIT 1
	`
	err := get(ctx, r.db, &interest, query, domain.PairKey(user1ID, user2ID), domain.InterestPending, domain.InterestAccepted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInterestNotFound
		}
		return nil, mapError(err)
	}
	return &interest, nil
}

func (r *interestRepository) ListSent(ctx context.Context, userID string, status *domain.InterestStatus) ([]*domain.Interest, error) {
	return r.listBy(ctx, "from_user_id", userID, status)
}

func (r *interestRepository) ListReceived(ctx context.Context, userID string, status *domain.InterestStatus) ([]*domain.Interest, error) {
	return r.listBy(ctx, "to_user_id", userID, status)
}

func (r *interestRepository) listBy(ctx context.Context, column, userID string, status *domain.InterestStatus) ([]*domain.Interest, error) {
	interests := []*domain.Interest{}
	query := `SELECT ` + interestColumns + ` FROM interests WHERE ` + column + ` = ?`
	args := []interface{}{userID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	err := selectAll(ctx, r.db, &interests, query, args...)
	return interests, err
}

func (r *interestRepository) ListAccepted(ctx context.Context, userID string) ([]*domain.Interest, error) {
	interests := []*domain.Interest{}
	query := `
		SELECT ` + interestColumns + ` FROM interests
		WHERE status = ? AND (from_user_id = ? OR to_user_id = ?)
		ORDER BY updated_at DESC
	`
	err := selectAll(ctx, r.db, &interests, query, domain.InterestAccepted, userID, userID)
	return interests, err
}

func (r *interestRepository) ListInvolving(ctx context.Context, userID string) ([]*domain.Interest, error) {
	interests := []*domain.Interest{}
	query := `
		SELECT ` + interestColumns + ` FROM interests
		WHERE from_user_id = ? OR to_user_id = ?
		ORDER BY created_at DESC
	`
	err := selectAll(ctx, r.db, &interests, query, userID, userID)
	return interests, err
}

func (r *interestRepository) CountAccepted(ctx context.Context, userID string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM interests
		WHERE status = ? AND (from_user_id = ? OR to_user_id = ?)
	`
	err := get(ctx, r.db, &count, query, domain.InterestAccepted, userID, userID)
	return count, mapError(err)
}

func (r *interestRepository) CountActiveSent(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM interests WHERE from_user_id = ? AND status IN (?, ?)`
	err := get(ctx, r.db, &count, query, userID, domain.InterestPending, domain.InterestAccepted)
	return count, mapError(err)
}

func (r *interestRepository) ExistsAccepted(ctx context.Context, user1ID, user2ID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM interests WHERE pair_key = ? AND status = ?`
	if err := get(ctx, r.db, &count, query, domain.PairKey(user1ID, user2ID), domain.InterestAccepted); err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func (r *interestRepository) TransitionFromPending(ctx context.Context, id string, status domain.InterestStatus) (*domain.Interest, error) {
	query := `UPDATE interests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	rows, err := exec(ctx, r.db, query, status, time.Now().UTC(), id, domain.InterestPending)
	if err != nil {
		return nil, mapError(err)
	}
	if rows == 0 {
		return nil, domain.ErrInterestNotPending
	}
	return r.GetByID(ctx, id)
}

func (r *interestRepository) DeletePending(ctx context.Context, id string) error {
	query := `DELETE FROM interests WHERE id = ? AND status = ?`
	rows, err := exec(ctx, r.db, query, id, domain.InterestPending)
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return domain.ErrInterestNotPending
	}
	return nil
}
