package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignalRepository interface {
	CreateSignal(signal *model.Signal) error
	FindSignalsByInviteID(inviteID uuid.UUID) ([]model.Signal, error)
	// UpsertSession creates or refreshes the per-invite session row.
	UpsertSession(session *model.SignalSession) error
	FindSessionByInviteID(inviteID uuid.UUID) (*model.SignalSession, error)
	SessionActive(inviteID uuid.UUID) (bool, error)
	SetSessionStatus(inviteID uuid.UUID, status string) error
	// DeleteSignalsBefore prunes old mailbox entries after a session ends.
	DeleteSignalsBefore(inviteID uuid.UUID, cutoff time.Time) error
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{db: db}
}

func (r *signalRepository) CreateSignal(signal *model.Signal) error {
	return r.db.Create(signal).Error
}

func (r *signalRepository) FindSignalsByInviteID(inviteID uuid.UUID) ([]model.Signal, error) {
	var signals []model.Signal
	err := r.db.Where("invite_id = ?", inviteID).Order("created_at ASC").Find(&signals).Error
	return signals, err
}

func (r *signalRepository) UpsertSession(session *model.SignalSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invite_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "admin_offer_id", "updated_at"}),
	}).Create(session).Error
}

func (r *signalRepository) FindSessionByInviteID(inviteID uuid.UUID) (*model.SignalSession, error) {
	var session model.SignalSession
	if err := r.db.Where("invite_id = ?", inviteID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *signalRepository) SessionActive(inviteID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.SignalSession{}).
		Where("invite_id = ? AND status <> ?", inviteID, model.SignalSessionStatusEnded).
		Count(&count).Error
	return count > 0, err
}

func (r *signalRepository) SetSessionStatus(inviteID uuid.UUID, status string) error {
	return r.db.Model(&model.SignalSession{}).
		Where("invite_id = ?", inviteID).
		Update("status", status).Error
}

func (r *signalRepository) DeleteSignalsBefore(inviteID uuid.UUID, cutoff time.Time) error {
	return r.db.Where("invite_id = ? AND created_at < ?", inviteID, cutoff).
		Delete(&model.Signal{}).Error
}
