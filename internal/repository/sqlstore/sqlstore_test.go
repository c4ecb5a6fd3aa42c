package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/gdugdh24/matrimony-backend/internal/repository/sqlstore"
	"github.com/gdugdh24/matrimony-backend/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestRepository_ActivePairIsUnique(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewInterestRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")
	bob := testkit.CreateUser(t, db, "Bob")

	first := &domain.Interest{FromUserID: alice.ID, ToUserID: bob.ID, Status: domain.InterestPending}
	require.NoError(t, repo.Create(ctx, first))

	reverse := &domain.Interest{FromUserID: bob.ID, ToUserID: alice.ID, Status: domain.InterestPending}
	err := repo.Create(ctx, reverse)
	assert.ErrorIs(t, err, domain.ErrActiveInterestExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = repo.TransitionFromPending(ctx, first.ID, domain.InterestRejected)
	require.NoError(t, err)

	// a rejected record no longer blocks the pair
	require.NoError(t, repo.Create(ctx, reverse))
}

func TestInterestRepository_TransitionFromPending(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewInterestRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")
	bob := testkit.CreateUser(t, db, "Bob")

	msg := "Hi"
	in := &domain.Interest{FromUserID: alice.ID, ToUserID: bob.ID, Status: domain.InterestPending, Message: &msg}
	require.NoError(t, repo.Create(ctx, in))

	updated, err := repo.TransitionFromPending(ctx, in.ID, domain.InterestAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.InterestAccepted, updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	require.NotNil(t, updated.Message)
	assert.Equal(t, "Hi", *updated.Message)

	_, err = repo.TransitionFromPending(ctx, in.ID, domain.InterestRejected)
	assert.ErrorIs(t, err, domain.ErrInterestNotPending)

	ok, err := repo.ExistsAccepted(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := repo.CountAccepted(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = repo.DeletePending(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrInterestNotPending)
}

func TestInterestRepository_WithdrawnRowIsStale(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewInterestRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")
	bob := testkit.CreateUser(t, db, "Bob")

	in := &domain.Interest{FromUserID: alice.ID, ToUserID: bob.ID, Status: domain.InterestPending}
	require.NoError(t, repo.Create(ctx, in))
	require.NoError(t, repo.DeletePending(ctx, in.ID))

	_, err := repo.TransitionFromPending(ctx, in.ID, domain.InterestAccepted)
	assert.ErrorIs(t, err, domain.ErrInterestNotPending)

	err = repo.DeletePending(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrInterestNotPending)

	_, err = repo.GetByID(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrInterestNotFound)
}

func TestInterestRepository_Lists(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewInterestRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")
	bob := testkit.CreateUser(t, db, "Bob")
	carol := testkit.CreateUser(t, db, "Carol")

	toBob := &domain.Interest{FromUserID: alice.ID, ToUserID: bob.ID, Status: domain.InterestPending}
	toCarol := &domain.Interest{FromUserID: alice.ID, ToUserID: carol.ID, Status: domain.InterestPending}
	require.NoError(t, repo.Create(ctx, toBob))
	require.NoError(t, repo.Create(ctx, toCarol))
	_, err := repo.TransitionFromPending(ctx, toCarol.ID, domain.InterestAccepted)
	require.NoError(t, err)

	sent, err := repo.ListSent(ctx, alice.ID, nil)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, toCarol.ID, sent[0].ID)

	pending := domain.InterestPending
	sent, err = repo.ListSent(ctx, alice.ID, &pending)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, toBob.ID, sent[0].ID)

	received, err := repo.ListReceived(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	accepted, err := repo.ListAccepted(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, toCarol.ID, accepted[0].ID)

	active, err := repo.CountActiveSent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	require.NoError(t, repo.DeletePending(ctx, toBob.ID))
	_, err = repo.GetActiveBetween(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrInterestNotFound)

	involving, err := repo.ListInvolving(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, involving, 1)
}

func TestNotificationRepository_ReadState(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewNotificationRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")

	var ids []string
	for i := 0; i < 3; i++ {
		n := &domain.Notification{UserID: alice.ID, Type: domain.NotificationSystem, Message: "welcome"}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	read, err := repo.MarkRead(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	again, err := repo.MarkRead(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, firstReadAt.Equal(*again.ReadAt))

	unread, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	onlyUnread, err := repo.ListByUser(ctx, alice.ID, true)
	require.NoError(t, err)
	assert.Len(t, onlyUnread, 2)

	changed, err := repo.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = repo.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, changed)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), domain.ErrNotificationNotFound)

	all, err := repo.ListByUser(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserRepository_ListSummaries(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	users := sqlstore.NewUserRepository(db)
	profiles := sqlstore.NewProfileRepository(db)

	viewer := testkit.CreateUser(t, db, "Viewer", testkit.WithGender(domain.GenderMale))
	asha := testkit.CreateUser(t, db, "Asha", testkit.WithReligion("hindu"), testkit.WithAge(26))
	testkit.CreateUser(t, db, "Mina", testkit.WithReligion("muslim"), testkit.WithAge(31))
	testkit.CreateUser(t, db, "Admin", testkit.AsAdmin())

	city := "Dhaka"
	require.NoError(t, profiles.Create(ctx, &domain.Profile{UserID: asha.ID, Location: &city}))

	all, err := users.ListSummaries(ctx, viewer.ID, repository.DirectoryFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, s := range all {
		assert.NotEqual(t, viewer.ID, s.ID)
	}

	religion := "hindu"
	filtered, err := users.ListSummaries(ctx, viewer.ID, repository.DirectoryFilter{Religion: &religion, Limit: 50})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, asha.ID, filtered[0].ID)
	require.NotNil(t, filtered[0].Location)
	assert.Equal(t, "Dhaka", *filtered[0].Location)

	maxAge := 30
	young, err := users.ListSummaries(ctx, viewer.ID, repository.DirectoryFilter{MaxAge: &maxAge, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, young, 1)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	dup := &domain.User{Email: asha.Email, Name: "Copy", Age: 30, Gender: domain.GenderFemale, PasswordHash: "x"}
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrEmailTaken)
}

func TestProfileRepository_CreateUpdate(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewProfileRepository(db)
	user := testkit.CreateUser(t, db, "Asha")

	height := 162.5
	profile := &domain.Profile{UserID: user.ID}
	profile.HeightCm = &height
	require.NoError(t, repo.Create(ctx, profile))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Profile{UserID: user.ID}), domain.ErrProfileAlreadyExists)

	hobbies := "reading"
	profile.Hobbies = &hobbies
	profile.WillingToRelocate = true
	require.NoError(t, repo.Update(ctx, profile))

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Hobbies)
	assert.Equal(t, "reading", *got.Hobbies)
	require.NotNil(t, got.HeightCm)
	assert.InDelta(t, 162.5, *got.HeightCm, 0.001)
	assert.True(t, got.WillingToRelocate)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	tx := sqlstore.NewTransactor(db)
	notifications := sqlstore.NewNotificationRepository(db)
	alice := testkit.CreateUser(t, db, "Alice")

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		n := &domain.Notification{UserID: alice.ID, Type: domain.NotificationSystem, Message: "lost"}
		require.NoError(t, notifications.Create(ctx, n))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := notifications.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		return notifications.Create(ctx, &domain.Notification{UserID: alice.ID, Type: domain.NotificationSystem, Message: "kept"})
	})
	require.NoError(t, err)

	count, err = notifications.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	repo := sqlstore.NewSessionRepository(db)
	user := testkit.CreateUser(t, db, "Asha")

	session := &domain.Session{UserID: user.ID, Token: "hash-1"}
	session.ExpiresAt = time.Now().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByToken(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, repo.DeleteByToken(ctx, "hash-1"))
	assert.ErrorIs(t, repo.DeleteByToken(ctx, "hash-1"), domain.ErrSessionNotFound)
}
