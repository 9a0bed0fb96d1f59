package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	// CreateForInvite inserts the submission with its answers and flips the
	// invite from in_progress to completed in one transaction. Returns
	// apperror.ErrInviteNotActive when the invite was not in_progress, which
	// makes retried submits fail instead of double-scoring.
	CreateForInvite(submission *model.Submission) error
	FindByID(id uuid.UUID) (*model.Submission, error)
	FindByIDWithDetails(id uuid.UUID) (*model.Submission, error)
	FindAllWithDetails() ([]model.Submission, error)
	FindByScoringStatuses(statuses []string) ([]model.Submission, error)
	Update(submission *model.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateForInvite(submission *model.Submission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Invite{}).
			Where("id = ? AND status = ?", submission.InviteID, model.InviteStatusInProgress).
			Update("status", model.InviteStatusCompleted)
		if result.Error != nil {
			return fmt.Errorf("completing invite: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.ErrInviteNotActive
		}
		// GORM creates the associated answer rows alongside the submission.
		if err := tx.Create(submission).Error; err != nil {
			return fmt.Errorf("creating submission: %w", err)
		}
		return nil
	})
}

func (r *submissionRepository) FindByID(id uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDWithDetails(id uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Preload("Test").
		Preload("Invite").
		Preload("Answers.Question").
		First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindAllWithDetails() ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Preload("Test").
		Preload("Invite").
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindByScoringStatuses(statuses []string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Preload("Test").
		Preload("Invite").
		Where("scoring_status IN ?", statuses).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Update(submission *model.Submission) error {
	return r.db.Save(submission).Error
}
