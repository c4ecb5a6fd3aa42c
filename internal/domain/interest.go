package domain

import (
	"fmt"
	"time"
)

type InterestStatus string

const (
	InterestPending  InterestStatus = "pending"
	InterestAccepted InterestStatus = "accepted"
	InterestRejected InterestStatus = "rejected"
)

func (s InterestStatus) Valid() bool {
	switch s {
	case InterestPending, InterestAccepted, InterestRejected:
		return true
	}
	return false
}

// Active reports whether the status blocks a new interest between the same pair.
func (s InterestStatus) Active() bool {
	return s == InterestPending || s == InterestAccepted
}

type Interest struct {
	ID         string         `json:"id" db:"id"`
	FromUserID string         `json:"from_user_id" db:"from_user_id"`
	ToUserID   string         `json:"to_user_id" db:"to_user_id"`
	Status     InterestStatus `json:"status" db:"status"`
	Message    *string        `json:"message" db:"message"`
	PairKey    string         `json:"-" db:"pair_key"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at" db:"updated_at"`
}

func (i *Interest) HasUser(userID string) bool {
	return i.FromUserID == userID || i.ToUserID == userID
}

func (i *Interest) GetOtherUserID(userID string) (string, bool) {
	if i.FromUserID == userID {
		return i.ToUserID, true
	}
	if i.ToUserID == userID {
		return i.FromUserID, true
	}
	return "", false
}

// PairKey is the order-independent key of two users.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a, b)
}
