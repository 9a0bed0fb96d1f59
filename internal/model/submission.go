package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScoringStatusAutoOnly          = "auto_only"
	ScoringStatusNeedsReview       = "needs_review"
	ScoringStatusPartiallyReviewed = "partially_reviewed"
	ScoringStatusFullyReviewed     = "fully_reviewed"
)

// Submission is the single record of an applicant's completed attempt. It is
// created exactly once per invite, from status in_progress, and its creation
// flips the invite to completed in the same transaction.
type Submission struct {
	ID                uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	InviteID          uuid.UUID      `json:"invite_id" gorm:"type:uuid;not null;uniqueIndex"`
	Invite            Invite         `json:"invite,omitempty" gorm:"foreignKey:InviteID"`
	TestID            uuid.UUID      `json:"test_id" gorm:"type:uuid;not null;index"`
	Test              Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	ApplicantEmail    string         `json:"applicant_email" gorm:"not null;index"`
	StartedAt         *time.Time     `json:"started_at,omitempty"`
	SubmittedAt       time.Time      `json:"submitted_at" gorm:"not null"`
	AutoScore         float64        `json:"auto_score"`                // percentage over multiple-choice points only
	ManualScore       *float64       `json:"manual_score,omitempty"`    // summed review points, nil until review completes
	FinalScore        float64        `json:"final_score"`               // points-weighted blend, interim until fully reviewed
	ScoringStatus     string         `json:"scoring_status" gorm:"not null;index"` // "auto_only", "needs_review", "partially_reviewed", "fully_reviewed"
	IsMonitored       bool           `json:"is_monitored" gorm:"not null;default:false"`
	ReviewedBy        *uuid.UUID     `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewCompletedAt *time.Time     `json:"review_completed_at,omitempty"`
	Answers           []Answer       `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
