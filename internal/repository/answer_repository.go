package repository

import (
	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByID(id uuid.UUID) (*model.Answer, error)
	FindBySubmissionID(submissionID uuid.UUID) ([]model.Answer, error)
	Update(answer *model.Answer) error
	// ZeroUnattemptedPending resolves every still-pending answer with empty
	// text to zero points and a wrong label. Runs on every review action so
	// blanks never hold up finalization.
	ZeroUnattemptedPending(submissionID uuid.UUID, comment string) error
	// CountPendingAttempted counts answers still awaiting manual review that
	// the applicant actually attempted.
	CountPendingAttempted(submissionID uuid.UUID) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByID(id uuid.UUID) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Preload("Question").First(&answer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindBySubmissionID(submissionID uuid.UUID) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Preload("Question").
		Where("submission_id = ?", submissionID).
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) Update(answer *model.Answer) error {
	// Scoped to the review columns; the preloaded Question association must
	// not be written back.
	return r.db.Model(answer).
		Select("manual_score", "manual_score_status", "review_comments", "reviewed_by", "reviewed_at").
		Updates(answer).Error
}

func (r *answerRepository) ZeroUnattemptedPending(submissionID uuid.UUID, comment string) error {
	zero := 0.0
	return r.db.Model(&model.Answer{}).
		Where("submission_id = ? AND manual_score_status = ? AND answer = ''",
			submissionID, model.ManualScoreStatusPending).
		Updates(map[string]interface{}{
			"manual_score":        zero,
			"manual_score_status": model.ManualScoreStatusWrong,
			"review_comments":     comment,
		}).Error
}

func (r *answerRepository) CountPendingAttempted(submissionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("submission_id = ? AND manual_score_status = ? AND answer <> ''",
			submissionID, model.ManualScoreStatusPending).
		Count(&count).Error
	return count, err
}
