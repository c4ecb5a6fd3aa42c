package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
)

// VisibilityChecker decides whether viewer may see target's extended fields.
type VisibilityChecker interface {
	CanViewFull(ctx context.Context, viewerID, targetID string) (bool, error)
}

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	visibility  VisibilityChecker
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	visibility VisibilityChecker,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		visibility:  visibility,
	}
}

// ProfileRequest carries profile fields. On update, nil fields are left as they are.
type ProfileRequest struct {
	Location           *string  `json:"location" binding:"omitempty,max=255"`
	Profession         *string  `json:"profession" binding:"omitempty,max=255"`
	AcademicBackground *string  `json:"academic_background" binding:"omitempty,max=255"`
	ProfilePictureURL  *string  `json:"profile_picture_url" binding:"omitempty,url,max=2048"`
	MaritalStatus      *string  `json:"marital_status" binding:"omitempty,oneof=never_married divorced widowed separated"`
	Hobbies            *string  `json:"hobbies" binding:"omitempty,max=1000"`
	Interests          *string  `json:"interests" binding:"omitempty,max=1000"`
	HeightCm           *float64 `json:"height_cm" binding:"omitempty,min=50,max=250"`
	WeightKg           *float64 `json:"weight_kg" binding:"omitempty,min=20,max=300"`
	BloodGroup         *string  `json:"blood_group" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HealthStatus       *string  `json:"health_status" binding:"omitempty,max=255"`
	DietaryPreference  *string  `json:"dietary_preference" binding:"omitempty,max=64"`
	SmokingHabit       *string  `json:"smoking_habit" binding:"omitempty,max=64"`
	AlcoholConsumption *string  `json:"alcohol_consumption" binding:"omitempty,max=64"`
	PreferredAgeMin    *int     `json:"preferred_age_min" binding:"omitempty,min=18,max=100"`
	PreferredAgeMax    *int     `json:"preferred_age_max" binding:"omitempty,min=18,max=100"`
	PreferredReligion  *string  `json:"preferred_religion" binding:"omitempty,max=64"`
	WillingToRelocate  *bool    `json:"willing_to_relocate"`
	AdditionalComments *string  `json:"additional_comments" binding:"omitempty,max=2000"`
}

// ProfileResponse is a user as seen by the viewer. Extended is present only
// with full access.
type ProfileResponse struct {
	*domain.UserSummary
	Extended   *domain.Extended `json:"extended,omitempty"`
	FullAccess bool             `json:"full_access"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, actor domain.Actor) (*domain.Profile, error) {
	return uc.profileRepo.GetByUserID(ctx, actor.UserID)
}

// GetProfileByUserID returns target's summary, plus the extended fields when
// the viewer shares an accepted interest with target.
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, actor domain.Actor, targetUserID string) (*ProfileResponse, error) {
	summary, err := uc.userRepo.GetSummary(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	full, err := uc.visibility.CanViewFull(ctx, actor.UserID, targetUserID)
	if err != nil {
		return nil, err
	}

	response := &ProfileResponse{UserSummary: summary, FullAccess: full}
	if !full {
		return response, nil
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return response, nil
		}
		return nil, err
	}

	extended := profile.Extended
	response.Extended = &extended
	return response, nil
}

// CreateProfile creates the actor's profile
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, actor domain.Actor, req *ProfileRequest) (*domain.Profile, error) {
	if err := validateAgeRange(req); err != nil {
		return nil, err
	}

	profile := &domain.Profile{UserID: actor.UserID}
	apply(profile, req)

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

// UpdateProfile updates user profile
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, actor domain.Actor, req *ProfileRequest) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	apply(profile, req)
	if err := validateRange(profile.PreferredAgeMin, profile.PreferredAgeMax); err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func apply(p *domain.Profile, req *ProfileRequest) {
	setString(&p.Location, req.Location)
	setString(&p.Profession, req.Profession)
	setString(&p.AcademicBackground, req.AcademicBackground)
	setString(&p.ProfilePictureURL, req.ProfilePictureURL)
	setString(&p.MaritalStatus, req.MaritalStatus)
	setString(&p.Hobbies, req.Hobbies)
	setString(&p.Interests, req.Interests)
	setString(&p.BloodGroup, req.BloodGroup)
	setString(&p.HealthStatus, req.HealthStatus)
	setString(&p.DietaryPreference, req.DietaryPreference)
	setString(&p.SmokingHabit, req.SmokingHabit)
	setString(&p.AlcoholConsumption, req.AlcoholConsumption)
	setString(&p.PreferredReligion, req.PreferredReligion)
	setString(&p.AdditionalComments, req.AdditionalComments)

	if req.HeightCm != nil {
		p.HeightCm = req.HeightCm
	}
	if req.WeightKg != nil {
		p.WeightKg = req.WeightKg
	}
	if req.PreferredAgeMin != nil {
		p.PreferredAgeMin = req.PreferredAgeMin
	}
	if req.PreferredAgeMax != nil {
		p.PreferredAgeMax = req.PreferredAgeMax
	}
	if req.WillingToRelocate != nil {
		p.WillingToRelocate = *req.WillingToRelocate
	}
}

// setString copies v into dst; an empty string clears the field.
func setString(dst **string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}

func validateAgeRange(req *ProfileRequest) error {
	return validateRange(req.PreferredAgeMin, req.PreferredAgeMax)
}

func validateRange(lo, hi *int) error {
	if lo != nil && hi != nil && *lo > *hi {
		return domain.NewError(domain.KindInvalidInput, "preferred_age_min must not exceed preferred_age_max")
	}
	return nil
}
