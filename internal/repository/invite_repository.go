package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
)

type InviteRepository interface {
	Create(invite *model.Invite) error
	FindByID(id uuid.UUID) (*model.Invite, error)
	FindByToken(token uuid.UUID) (*model.Invite, error)
	FindAllByInviter(adminID uuid.UUID) ([]model.Invite, error)
	FindAllByEmail(email string) ([]model.Invite, error)
	// FindOtherInProgressByEmail returns another in_progress invite for the
	// same applicant, or gorm.ErrRecordNotFound when none exists.
	FindOtherInProgressByEmail(email string, excludeID uuid.UUID) (*model.Invite, error)
	// FindOldestOpenByEmail returns the applicant's oldest invite (by
	// created_at) among sent, scheduled and in_progress.
	FindOldestOpenByEmail(email string) (*model.Invite, error)
	// Schedule sets the scheduled date and forces status to scheduled.
	Schedule(id uuid.UUID, scheduledDate time.Time) error
	// MarkInProgress transitions sent/scheduled to in_progress. Returns false
	// when the invite was not in a startable state (the conditional update
	// touched no rows).
	MarkInProgress(id uuid.UUID, startedAt time.Time) (bool, error)
	CountByTestAndStatuses(testID uuid.UUID, statuses []string) (int64, error)
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(invite *model.Invite) error {
	return r.db.Create(invite).Error
}

func (r *inviteRepository) FindByID(id uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.First(&invite, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) FindByToken(token uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.Where("invite_token = ?", token).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) FindAllByInviter(adminID uuid.UUID) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.Preload("Test").
		Where("invited_by = ?", adminID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) FindAllByEmail(email string) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.Preload("Test").
		Where("applicant_email = ?", email).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) FindOtherInProgressByEmail(email string, excludeID uuid.UUID) (*model.Invite, error) {
	var invite model.Invite
	err := r.db.
		Where("applicant_email = ? AND status = ? AND id <> ?", email, model.InviteStatusInProgress, excludeID).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) FindOldestOpenByEmail(email string) (*model.Invite, error) {
	var invite model.Invite
	openStatuses := []string{model.InviteStatusSent, model.InviteStatusScheduled, model.InviteStatusInProgress}
	err := r.db.
		Where("applicant_email = ? AND status IN ?", email, openStatuses).
		Order("created_at ASC").
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) Schedule(id uuid.UUID, scheduledDate time.Time) error {
	return r.db.Model(&model.Invite{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"scheduled_date": scheduledDate,
			"status":         model.InviteStatusScheduled,
		}).Error
}

func (r *inviteRepository) MarkInProgress(id uuid.UUID, startedAt time.Time) (bool, error) {
	result := r.db.Model(&model.Invite{}).
		Where("id = ? AND status IN ?", id, []string{model.InviteStatusSent, model.InviteStatusScheduled}).
		Updates(map[string]interface{}{
			"status":     model.InviteStatusInProgress,
			"started_at": startedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *inviteRepository) CountByTestAndStatuses(testID uuid.UUID, statuses []string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Invite{}).
		Where("test_id = ? AND status IN ?", testID, statuses).
		Count(&count).Error
	return count, err
}
