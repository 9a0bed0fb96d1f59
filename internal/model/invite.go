package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InviteStatusSent       = "sent"
	InviteStatusScheduled  = "scheduled"
	InviteStatusInProgress = "in_progress"
	InviteStatusCompleted  = "completed"
	InviteStatusExpired    = "expired"
)

// StartWindow is the band around a scheduled date within which a scheduled,
// not-yet-started test may be opened.
const StartWindow = 30 * time.Minute

// Invite grants one applicant access to take one specific test. The token is a
// capability credential: possessing it is sufficient, no applicant login is
// required to take the test.
type Invite struct {
	ID             uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	TestID         uuid.UUID      `json:"test_id" gorm:"type:uuid;not null;index"`
	Test           Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	ApplicantEmail string         `json:"applicant_email" gorm:"not null;index"`
	ApplicantName  string         `json:"applicant_name" gorm:"not null"`
	InvitedBy      uuid.UUID      `json:"invited_by" gorm:"type:uuid;not null;index"`
	InviteToken    uuid.UUID      `json:"invite_token" gorm:"type:uuid;uniqueIndex;not null"`
	ScheduledDate  *time.Time     `json:"scheduled_date,omitempty"`
	Status         string         `json:"status" gorm:"not null;default:'sent';index"` // "sent", "scheduled", "in_progress", "completed", "expired"
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.InviteToken == uuid.Nil {
		i.InviteToken = uuid.New()
	}
	return nil
}

// IsOpen reports whether the invite has not yet reached a terminal state.
func (i *Invite) IsOpen() bool {
	switch i.Status {
	case InviteStatusSent, InviteStatusScheduled, InviteStatusInProgress:
		return true
	}
	return false
}
