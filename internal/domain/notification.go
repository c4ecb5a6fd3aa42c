package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationInterestReceived NotificationType = "interest_received"
	NotificationInterestAccepted NotificationType = "interest_accepted"
	NotificationInterestRejected NotificationType = "interest_rejected"
	NotificationSystem           NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInterestReceived, NotificationInterestAccepted, NotificationInterestRejected, NotificationSystem:
		return true
	}
	return false
}

type Notification struct {
	ID         string           `json:"id" db:"id"`
	UserID     string           `json:"user_id" db:"user_id"`
	Type       NotificationType `json:"type" db:"type"`
	FromUserID *string          `json:"from_user_id" db:"from_user_id"`
	RelatedID  *string          `json:"related_id" db:"related_id"`
	Message    string           `json:"message" db:"message"`
	IsRead     bool             `json:"is_read" db:"is_read"`
	ReadAt     *time.Time       `json:"read_at" db:"read_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// NewInterestNotification builds the notification recipientID receives when
// actor moves interestID into the state described by t.
func NewInterestNotification(t NotificationType, recipientID string, actor *User, interestID string) *Notification {
	var text string
	switch t {
	case NotificationInterestReceived:
		text = fmt.Sprintf("%s has sent you an interest", actor.Name)
	case NotificationInterestAccepted:
		text = fmt.Sprintf("%s has accepted your interest", actor.Name)
	case NotificationInterestRejected:
		text = fmt.Sprintf("%s has declined your interest", actor.Name)
	}

	fromID := actor.ID
	relatedID := interestID
	return &Notification{
		UserID:     recipientID,
		Type:       t,
		FromUserID: &fromID,
		RelatedID:  &relatedID,
		Message:    text,
	}
}
