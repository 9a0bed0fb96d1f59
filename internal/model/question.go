package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeCoding         = "coding"
	QuestionTypeEssay          = "essay"
)

type Question struct {
	ID               uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	TestID           uuid.UUID      `json:"test_id" gorm:"type:uuid;not null;index"`
	Type             string         `json:"type" gorm:"not null"` // "multiple_choice", "coding", "essay"
	Prompt           string         `json:"question" gorm:"column:question;type:text;not null"`
	Options          []string       `json:"options,omitempty" gorm:"serializer:json"`
	CorrectAnswer    *string        `json:"correct_answer,omitempty"` // multiple_choice only, stripped from applicant reads
	ExpectedLanguage *string        `json:"expected_language,omitempty"`
	Points           float64        `json:"points" gorm:"not null;default:1"`
	QuestionOrder    int            `json:"question_order" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsManuallyScored reports whether the question type goes through admin review
// instead of automatic grading.
func (q *Question) IsManuallyScored() bool {
	return q.Type == QuestionTypeCoding || q.Type == QuestionTypeEssay
}
