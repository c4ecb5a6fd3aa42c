// Package testkit provides database fixtures for package tests.
package testkit

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gdugdh24/matrimony-backend/internal/config"
	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/infrastructure/database"
	"github.com/gdugdh24/matrimony-backend/internal/repository/sqlstore"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// NewDB returns a migrated SQLite database private to t.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(context.Background(), config.DriverSQLite, database.SQLiteDSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

var userSeq atomic.Int64

// UserOption customizes a fixture user before insert.
type UserOption func(u *domain.User)

func WithGender(g domain.Gender) UserOption {
	return func(u *domain.User) { u.Gender = g }
}

func WithReligion(religion string) UserOption {
	return func(u *domain.User) { u.Religion = &religion }
}

func WithAge(age int) UserOption {
	return func(u *domain.User) { u.Age = age }
}

func AsAdmin() UserOption {
	return func(u *domain.User) { u.Role = domain.RoleAdmin }
}

// Password is the plain-text password of every fixture user.
const Password = "password123"

// CreateUser inserts a user named name with password Password.
func CreateUser(t testing.TB, db *sqlx.DB, name string, opts ...UserOption) *domain.User {
	t.Helper()

	n := userSeq.Add(1)
	user := &domain.User{
		Email:  fmt.Sprintf("user%d@example.com", n),
		Name:   name,
		Age:    28,
		Gender: domain.GenderFemale,
		Role:   domain.RoleUser,
	}
	for _, opt := range opts {
		opt(user)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
	require.NoError(t, sqlstore.NewUserRepository(db).Create(context.Background(), user))
	return user
}
