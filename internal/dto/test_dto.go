package dto

import (
	"time"

	"github.com/google/uuid"
)

// QuestionCreateDTO is used within TestCreateDTO for admin test creation.
type QuestionCreateDTO struct {
	Type             string   `json:"type" binding:"required,oneof=multiple_choice coding essay"`
	Prompt           string   `json:"question" binding:"required"`
	Options          []string `json:"options"`
	CorrectAnswer    *string  `json:"correct_answer"`
	ExpectedLanguage *string  `json:"expected_language"`
	Points           float64  `json:"points" binding:"required,gte=1"`
}

// TestCreateDTO is for an admin to create a new test with all its questions.
type TestCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,gt=0"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// TestUpdateDTO updates test metadata. Forbidden while any invite for the
// test is in_progress.
type TestUpdateDTO struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
}

// QuestionResponseDTO is the admin-facing question shape; it includes the
// correct answer. Applicant-facing reads use TakeTestQuestionDTO instead.
type QuestionResponseDTO struct {
	ID               uuid.UUID `json:"id"`
	TestID           uuid.UUID `json:"test_id"`
	Type             string    `json:"type"`
	Prompt           string    `json:"question"`
	Options          []string  `json:"options,omitempty"`
	CorrectAnswer    *string   `json:"correct_answer,omitempty"`
	ExpectedLanguage *string   `json:"expected_language,omitempty"`
	Points           float64   `json:"points"`
	QuestionOrder    int       `json:"question_order"`
}

// TestResponseDTO is the admin-facing full test shape.
type TestResponseDTO struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	DurationMinutes int                   `json:"duration_minutes"`
	CreatedBy       uuid.UUID             `json:"created_by"`
	IsActive        bool                  `json:"is_active"`
	Questions       []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}
