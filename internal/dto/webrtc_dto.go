package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SignalRequestDTO carries one WebRTC signaling message. Payload is opaque to
// the relay and stored verbatim.
type SignalRequestDTO struct {
	InviteID uuid.UUID       `json:"invite_id" binding:"required"`
	Payload  json.RawMessage `json:"payload" binding:"required"`
}

type SignalDTO struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type SignalsResponseDTO struct {
	Signals       []SignalDTO `json:"signals"`
	SessionStatus string      `json:"session_status"`
}
