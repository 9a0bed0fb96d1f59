package dto

import (
	"time"

	"github.com/google/uuid"
)

type InviteCreateDTO struct {
	TestID         uuid.UUID `json:"test_id" binding:"required"`
	ApplicantEmail string    `json:"applicant_email" binding:"required,email"`
	ApplicantName  string    `json:"applicant_name" binding:"required"`
}

type InviteResponseDTO struct {
	ID             uuid.UUID  `json:"id"`
	TestID         uuid.UUID  `json:"test_id"`
	ApplicantEmail string     `json:"applicant_email"`
	ApplicantName  string     `json:"applicant_name"`
	InvitedBy      uuid.UUID  `json:"invited_by"`
	InviteToken    uuid.UUID  `json:"invite_token"`
	ScheduledDate  *time.Time `json:"scheduled_date,omitempty"`
	Status         string     `json:"status"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// MyInviteDTO is the applicant dashboard row: the invite joined with the test
// it grants access to.
type MyInviteDTO struct {
	ID              uuid.UUID  `json:"id"`
	TestID          uuid.UUID  `json:"test_id"`
	TestTitle       string     `json:"test_title"`
	DurationMinutes int        `json:"duration_minutes"`
	InviteToken     uuid.UUID  `json:"invite_token"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
