package dto

import (
	"time"

	"github.com/google/uuid"
)

// ScoreAnswerRequestDTO is one manual scoring action on a single answer.
type ScoreAnswerRequestDTO struct {
	Score    *float64 `json:"score" binding:"required,gte=0"`
	Status   string   `json:"status" binding:"required,oneof=correct partial wrong"`
	Comments string   `json:"comments"`
}

type AnswerReviewDTO struct {
	ID                uuid.UUID  `json:"id"`
	QuestionID        uuid.UUID  `json:"question_id"`
	QuestionPrompt    string     `json:"question"`
	QuestionType      string     `json:"question_type"`
	Points            float64    `json:"points"`
	CorrectAnswer     *string    `json:"correct_answer,omitempty"`
	AnswerText        string     `json:"answer"`
	ManualScore       *float64   `json:"manual_score,omitempty"`
	ManualScoreStatus *string    `json:"manual_score_status,omitempty"`
	ReviewComments    string     `json:"review_comments,omitempty"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
}

type SubmissionSummaryDTO struct {
	ID             uuid.UUID  `json:"id"`
	InviteID       uuid.UUID  `json:"invite_id"`
	TestID         uuid.UUID  `json:"test_id"`
	TestTitle      string     `json:"test_title"`
	ApplicantEmail string     `json:"applicant_email"`
	ApplicantName  string     `json:"applicant_name"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	AutoScore      float64    `json:"auto_score"`
	ManualScore    *float64   `json:"manual_score,omitempty"`
	FinalScore     float64    `json:"final_score"`
	ScoringStatus  string     `json:"scoring_status"`
	IsMonitored    bool       `json:"is_monitored"`
}

type SubmissionDetailDTO struct {
	SubmissionSummaryDTO
	ReviewedBy        *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewCompletedAt *time.Time        `json:"review_completed_at,omitempty"`
	Answers           []AnswerReviewDTO `json:"answers"`
}

// ScoreAnswerResponseDTO reports the submission's review progress after one
// scoring action.
type ScoreAnswerResponseDTO struct {
	Message       string   `json:"message"`
	ScoringStatus string   `json:"scoring_status"`
	FinalScore    *float64 `json:"final_score,omitempty"` // set once fully reviewed
	PendingCount  int64    `json:"pending_count"`
}
