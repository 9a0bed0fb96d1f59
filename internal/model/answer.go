package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ManualScoreStatusPending = "pending"
	ManualScoreStatusCorrect = "correct"
	ManualScoreStatusPartial = "partial"
	ManualScoreStatusWrong   = "wrong"
)

// Answer holds the applicant's raw answer for one question. One row exists per
// (submission, question) pair, including unattempted questions with an empty
// answer text, so review completeness can be derived from row counts alone.
type Answer struct {
	ID                uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	SubmissionID      uuid.UUID      `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex:idx_answers_submission_question"`
	QuestionID        uuid.UUID      `json:"question_id" gorm:"type:uuid;not null;uniqueIndex:idx_answers_submission_question"`
	Question          Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AnswerText        string         `json:"answer" gorm:"column:answer;type:text;not null"` // empty string = unattempted
	ManualScore       *float64       `json:"manual_score,omitempty"`
	ManualScoreStatus *string        `json:"manual_score_status,omitempty"` // "pending", "correct", "partial", "wrong"; nil for auto-graded
	ReviewComments    string         `json:"review_comments,omitempty" gorm:"type:text"`
	ReviewedBy        *uuid.UUID     `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
