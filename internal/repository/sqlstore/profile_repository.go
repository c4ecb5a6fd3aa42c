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

const profileColumns = `id, user_id, location, profession, academic_background, profile_picture_url,
	marital_status, hobbies, interests, height_cm, weight_kg, blood_group, health_status,
	dietary_preference, smoking_habit, alcohol_consumption, preferred_age_min, preferred_age_max,
	preferred_religion, willing_to_relocate, additional_comments, created_at, updated_at`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt, profile.UpdatedAt = now, now

	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	ext := profile.Extended
	_, err := exec(ctx, r.db, query,
		profile.ID, profile.UserID, profile.Location, profile.Profession,
		profile.AcademicBackground, profile.ProfilePictureURL,
		ext.MaritalStatus, ext.Hobbies, ext.Interests, ext.HeightCm, ext.WeightKg,
		ext.BloodGroup, ext.HealthStatus, ext.DietaryPreference, ext.SmokingHabit,
		ext.AlcoholConsumption, ext.PreferredAgeMin, ext.PreferredAgeMax,
		ext.PreferredReligion, ext.WillingToRelocate, ext.AdditionalComments,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrProfileAlreadyExists
	}
	return mapError(err)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`
	if err := get(ctx, r.db, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	profile.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE profiles
		SET location = ?, profession = ?, academic_background = ?, profile_picture_url = ?,
		    marital_status = ?, hobbies = ?, interests = ?, height_cm = ?, weight_kg = ?,
		    blood_group = ?, health_status = ?, dietary_preference = ?, smoking_habit = ?,
		    alcohol_consumption = ?, preferred_age_min = ?, preferred_age_max = ?,
		    preferred_religion = ?, willing_to_relocate = ?, additional_comments = ?,
		    updated_at = ?
		WHERE id = ?
	`
	ext := profile.Extended
	rows, err := exec(ctx, r.db, query,
		profile.Location, profile.Profession, profile.AcademicBackground, profile.ProfilePictureURL,
		ext.MaritalStatus, ext.Hobbies, ext.Interests, ext.HeightCm, ext.WeightKg,
		ext.BloodGroup, ext.HealthStatus, ext.DietaryPreference, ext.SmokingHabit,
		ext.AlcoholConsumption, ext.PreferredAgeMin, ext.PreferredAgeMax,
		ext.PreferredReligion, ext.WillingToRelocate, ext.AdditionalComments,
		profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
