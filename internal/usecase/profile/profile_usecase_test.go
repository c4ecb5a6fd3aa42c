package profile_test

import (
	"context"
	"testing"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository/sqlstore"
	"github.com/gdugdh24/matrimony-backend/internal/testkit"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/profile"
	"github.com/gdugdh24/matrimony-backend/internal/usecase/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetProfileByUserID_GatesExtendedFields(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	interests := sqlstore.NewInterestRepository(db)
	uc := profile.NewProfileUseCase(sqlstore.NewProfileRepository(db), sqlstore.NewUserRepository(db), visibility.NewGate(interests))

	alice := testkit.CreateUser(t, db, "Alice")
	bob := testkit.CreateUser(t, db, "Bob")

	_, err := uc.CreateProfile(ctx, domain.Actor{UserID: bob.ID}, &profile.ProfileRequest{
		Location: strPtr("Dhaka"),
		Hobbies:  strPtr("cricket"),
	})
	require.NoError(t, err)

	view, err := uc.GetProfileByUserID(ctx, domain.Actor{UserID: alice.ID}, bob.ID)
	require.NoError(t, err)
	assert.False(t, view.FullAccess)
	assert.Nil(t, view.Extended)
	require.NotNil(t, view.Location)
	assert.Equal(t, "Dhaka", *view.Location)

	in := &domain.Interest{FromUserID: alice.ID, ToUserID: bob.ID, Status: domain.InterestPending}
	require.NoError(t, interests.Create(ctx, in))
	_, err = interests.TransitionFromPending(ctx, in.ID, domain.InterestAccepted)
	require.NoError(t, err)

	view, err = uc.GetProfileByUserID(ctx, domain.Actor{UserID: alice.ID}, bob.ID)
	require.NoError(t, err)
	assert.True(t, view.FullAccess)
	require.NotNil(t, view.Extended)
	require.NotNil(t, view.Extended.Hobbies)
	assert.Equal(t, "cricket", *view.Extended.Hobbies)

	own, err := uc.GetProfileByUserID(ctx, domain.Actor{UserID: bob.ID}, bob.ID)
	require.NoError(t, err)
	assert.True(t, own.FullAccess)

	_, err = uc.GetProfileByUserID(ctx, domain.Actor{UserID: alice.ID}, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateAndUpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	interests := sqlstore.NewInterestRepository(db)
	uc := profile.NewProfileUseCase(sqlstore.NewProfileRepository(db), sqlstore.NewUserRepository(db), visibility.NewGate(interests))
	asha := testkit.CreateUser(t, db, "Asha")
	actor := domain.Actor{UserID: asha.ID}

	_, err := uc.GetMyProfile(ctx, actor)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	lo, hi := 30, 25
	_, err = uc.CreateProfile(ctx, actor, &profile.ProfileRequest{PreferredAgeMin: &lo, PreferredAgeMax: &hi})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	created, err := uc.CreateProfile(ctx, actor, &profile.ProfileRequest{Profession: strPtr("Engineer"), Location: strPtr("Sylhet")})
	require.NoError(t, err)
	assert.Equal(t, asha.ID, created.UserID)

	_, err = uc.CreateProfile(ctx, actor, &profile.ProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrProfileAlreadyExists)

	relocate := true
	updated, err := uc.UpdateProfile(ctx, actor, &profile.ProfileRequest{Location: strPtr(""), WillingToRelocate: &relocate})
	require.NoError(t, err)
	assert.Nil(t, updated.Location)
	require.NotNil(t, updated.Profession)
	assert.Equal(t, "Engineer", *updated.Profession)
	assert.True(t, updated.WillingToRelocate)

	mine, err := uc.GetMyProfile(ctx, actor)
	require.NoError(t, err)
	assert.Nil(t, mine.Location)
	assert.True(t, mine.WillingToRelocate)
}
