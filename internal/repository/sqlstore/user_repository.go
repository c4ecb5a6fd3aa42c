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

const (
	userColumns    = `id, email, password_hash, name, age, gender, religion, role, created_at`
	summaryColumns = `u.id, u.name, u.age, u.gender, u.religion,
		p.location, p.profession, p.academic_background, p.profile_picture_url`
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO users (id, email, password_hash, name, age, gender, religion, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(ctx, r.db, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Age,
		user.Gender, user.Religion, user.Role, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	if err := get(ctx, r.db, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) ListSummaries(ctx context.Context, excludeID string, filter repository.DirectoryFilter) ([]*domain.UserSummary, error) {
	summaries := []*domain.UserSummary{}

	query := `
		SELECT ` + summaryColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> ? AND u.role = ?
	`
	args := []interface{}{excludeID, domain.RoleUser}

	if filter.Gender != nil {
		query += ` AND u.gender = ?`
		args = append(args, *filter.Gender)
	}
	if filter.Religion != nil && *filter.Religion != "" {
		query += ` AND u.religion = ?`
		args = append(args, *filter.Religion)
	}
	if filter.MinAge != nil {
		query += ` AND u.age >= ?`
		args = append(args, *filter.MinAge)
	}
	if filter.MaxAge != nil {
		query += ` AND u.age <= ?`
		args = append(args, *filter.MaxAge)
	}

	query += ` ORDER BY u.created_at DESC, u.id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	err := selectAll(ctx, r.db, &summaries, query, args...)
	return summaries, err
}

func (r *userRepository) GetSummary(ctx context.Context, id string) (*domain.UserSummary, error) {
	var summary domain.UserSummary
	query := `
		SELECT ` + summaryColumns + `
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = ?
	`
	if err := get(ctx, r.db, &summary, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapError(err)
	}
	return &summary, nil
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO sessions (id, user_id, token_hash, device_info, ip_address, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(ctx, r.db, query,
		session.ID, session.UserID, session.Token, session.DeviceInfo,
		session.IPAddress, session.ExpiresAt.UTC(), session.CreatedAt,
	)
	return mapError(err)
}

func (r *sessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	query := `
		SELECT id, user_id, token_hash, device_info, ip_address, expires_at, created_at
		FROM sessions WHERE token_hash = ?
	`
	if err := get(ctx, r.db, &session, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, mapError(err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	rows, err := exec(ctx, r.db, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
