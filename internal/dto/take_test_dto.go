package dto

import (
	"time"

	"github.com/google/uuid"
)

// TakeTestQuestionDTO is the applicant-facing question shape. It never
// carries the correct answer.
type TakeTestQuestionDTO struct {
	ID               uuid.UUID `json:"id"`
	Type             string    `json:"type"`
	Prompt           string    `json:"question"`
	Options          []string  `json:"options,omitempty"`
	ExpectedLanguage *string   `json:"expected_language,omitempty"`
	Points           float64   `json:"points"`
}

type TakeTestTestDTO struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	DurationMinutes int                   `json:"duration_minutes"`
	Questions       []TakeTestQuestionDTO `json:"questions"`
}

type TakeTestInviteDTO struct {
	ID             uuid.UUID  `json:"id"`
	TestID         uuid.UUID  `json:"test_id"`
	ApplicantEmail string     `json:"applicant_email"`
	ApplicantName  string     `json:"applicant_name"`
	Status         string     `json:"status"`
	InviteToken    uuid.UUID  `json:"invite_token"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}

// TakeTestResponseDTO is the read_for_taking response. RemainingTimeSeconds
// is present only for an in_progress session.
type TakeTestResponseDTO struct {
	Invite               TakeTestInviteDTO `json:"invite"`
	Test                 TakeTestTestDTO   `json:"test"`
	RemainingTimeSeconds *int64            `json:"remaining_time_seconds,omitempty"`
}

type ScheduleRequestDTO struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

type StartTestResponseDTO struct {
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

type SubmitAnswerDTO struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer"`
}

type SubmitTestRequestDTO struct {
	Answers []SubmitAnswerDTO `json:"answers" binding:"required,dive"`
}

type SubmitTestResponseDTO struct {
	Message       string    `json:"message"`
	SubmissionID  uuid.UUID `json:"submission_id"`
	AutoScore     float64   `json:"auto_score"`
	FinalScore    float64   `json:"final_score"`
	ScoringStatus string    `json:"scoring_status"`
}
