package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Test struct {
	ID              uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description,omitempty" gorm:"type:text"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	CreatedBy       uuid.UUID      `json:"created_by" gorm:"type:uuid;not null;index"`
	IsActive        bool           `json:"is_active" gorm:"not null;default:true"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Test) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
