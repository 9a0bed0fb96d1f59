package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SignalTypeOffer        = "offer"
	SignalTypeAnswer       = "answer"
	SignalTypeICECandidate = "ice_candidate"

	SignalSessionStatusActive    = "active"
	SignalSessionStatusWaiting   = "waiting_for_answer"
	SignalSessionStatusConnected = "connected"
	SignalSessionStatusEnded     = "ended"
)

// Signal is one WebRTC signaling message in the per-invite mailbox. The relay
// only appends and reads; it never interprets the payload.
type Signal struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	InviteID  uuid.UUID `json:"invite_id" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type" gorm:"not null"` // "offer", "answer", "ice_candidate"
	Data      string    `json:"data" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Signal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SignalSession tracks liveness of a monitoring session for one invite.
type SignalSession struct {
	ID           uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	InviteID     uuid.UUID  `json:"invite_id" gorm:"type:uuid;not null;uniqueIndex"`
	AdminOfferID *uuid.UUID `json:"admin_offer_id,omitempty" gorm:"type:uuid"`
	Status       string     `json:"status" gorm:"not null"` // "active", "waiting_for_answer", "connected", "ended"
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s *SignalSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
