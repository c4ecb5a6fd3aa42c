package domain

import "time"

type Profile struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	Location           *string   `json:"location" db:"location"`
	Profession         *string   `json:"profession" db:"profession"`
	AcademicBackground *string   `json:"academic_background" db:"academic_background"`
	ProfilePictureURL  *string   `json:"profile_picture_url" db:"profile_picture_url"`
	Extended           `json:"extended"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Extended holds the fields shown only to mutually interested users.
type Extended struct {
	MaritalStatus      *string  `json:"marital_status" db:"marital_status"`
	Hobbies            *string  `json:"hobbies" db:"hobbies"`
	Interests          *string  `json:"interests" db:"interests"`
	HeightCm           *float64 `json:"height_cm" db:"height_cm"`
	WeightKg           *float64 `json:"weight_kg" db:"weight_kg"`
	BloodGroup         *string  `json:"blood_group" db:"blood_group"`
	HealthStatus       *string  `json:"health_status" db:"health_status"`
	DietaryPreference  *string  `json:"dietary_preference" db:"dietary_preference"`
	SmokingHabit       *string  `json:"smoking_habit" db:"smoking_habit"`
	AlcoholConsumption *string  `json:"alcohol_consumption" db:"alcohol_consumption"`
	PreferredAgeMin    *int     `json:"preferred_age_min" db:"preferred_age_min"`
	PreferredAgeMax    *int     `json:"preferred_age_max" db:"preferred_age_max"`
	PreferredReligion  *string  `json:"preferred_religion" db:"preferred_religion"`
	WillingToRelocate  bool     `json:"willing_to_relocate" db:"willing_to_relocate"`
	AdditionalComments *string  `json:"additional_comments" db:"additional_comments"`
}

// DirectoryStatus is the interest relation between a viewer and a listed user.
type DirectoryStatus string

const (
	DirectoryNone            DirectoryStatus = "none"
	DirectoryPendingSent     DirectoryStatus = "pending_sent"
	DirectoryPendingReceived DirectoryStatus = "pending_received"
	DirectoryAccepted        DirectoryStatus = "accepted"
	DirectoryRejected        DirectoryStatus = "rejected"
)

// UserSummary is the always-visible part of a user.
type UserSummary struct {
	ID                 string          `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	Age                int             `json:"age" db:"age"`
	Gender             Gender          `json:"gender" db:"gender"`
	Religion           *string         `json:"religion" db:"religion"`
	Location           *string         `json:"location" db:"location"`
	Profession         *string         `json:"profession" db:"profession"`
	AcademicBackground *string         `json:"academic_background" db:"academic_background"`
	ProfilePictureURL  *string         `json:"profile_picture_url" db:"profile_picture_url"`
	InterestStatus     DirectoryStatus `json:"interest_status,omitempty" db:"-"`
}

// StatusFor derives the directory status of other from viewer's perspective.
// Active interests take precedence over rejected ones; among the rest the
// latest one wins.
func StatusFor(viewer string, interests []*Interest) DirectoryStatus {
	var latest *Interest
	for _, in := range interests {
		if in.Status.Active() {
			latest = in
			break
		}
		if latest == nil || in.CreatedAt.After(latest.CreatedAt) {
			latest = in
		}
	}
	if latest == nil {
		return DirectoryNone
	}
	switch latest.Status {
	case InterestAccepted:
		return DirectoryAccepted
	case InterestRejected:
		return DirectoryRejected
	case InterestPending:
		if latest.FromUserID == viewer {
			return DirectoryPendingSent
		}
		return DirectoryPendingReceived
	}
	return DirectoryNone
}
