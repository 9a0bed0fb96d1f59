package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// signalRetention is how long mailbox entries are kept after a session ends.
const signalRetention = time.Hour

// SignalingService is the WebRTC signaling mailbox: it stores and returns
// ordered offer/answer/ICE messages per invite. It never inspects payloads;
// the only lifecycle coupling is that a session may only start for an
// in_progress invite.
type SignalingService interface {
	StoreOffer(req dto.SignalRequestDTO) error
	StoreAnswer(req dto.SignalRequestDTO) error
	StoreICECandidate(req dto.SignalRequestDTO) error
	GetSignals(inviteID uuid.UUID) (*dto.SignalsResponseDTO, error)
	StartSession(inviteID uuid.UUID) error
	EndSession(inviteID uuid.UUID) error
}

type signalingService struct {
	signalRepo repository.SignalRepository
	inviteRepo repository.InviteRepository
	now        func() time.Time
}

func NewSignalingService(signalRepo repository.SignalRepository, inviteRepo repository.InviteRepository) SignalingService {
	return &signalingService{signalRepo: signalRepo, inviteRepo: inviteRepo, now: time.Now}
}

func (s *signalingService) StoreOffer(req dto.SignalRequestDTO) error {
	signal, err := s.store(model.SignalTypeOffer, req)
	if err != nil {
		return err
	}
	// An offer (re)opens the session and waits for the applicant's answer.
	session := model.SignalSession{
		InviteID:     req.InviteID,
		AdminOfferID: &signal.ID,
		Status:       model.SignalSessionStatusWaiting,
	}
	if err := s.signalRepo.UpsertSession(&session); err != nil {
		return fmt.Errorf("updating signal session: %w", err)
	}
	return nil
}

func (s *signalingService) StoreAnswer(req dto.SignalRequestDTO) error {
	if _, err := s.store(model.SignalTypeAnswer, req); err != nil {
		return err
	}
	if err := s.signalRepo.SetSessionStatus(req.InviteID, model.SignalSessionStatusConnected); err != nil {
		return fmt.Errorf("updating signal session: %w", err)
	}
	return nil
}

func (s *signalingService) StoreICECandidate(req dto.SignalRequestDTO) error {
	_, err := s.store(model.SignalTypeICECandidate, req)
	return err
}

func (s *signalingService) store(signalType string, req dto.SignalRequestDTO) (*model.Signal, error) {
	signal := model.Signal{
		InviteID: req.InviteID,
		Type:     signalType,
		Data:     string(req.Payload),
	}
	if err := s.signalRepo.CreateSignal(&signal); err != nil {
		log.Error().Err(err).Str("invite", req.InviteID.String()).Str("type", signalType).
			Msg("Failed to store signal")
		return nil, fmt.Errorf("storing %s signal: %w", signalType, err)
	}
	return &signal, nil
}

func (s *signalingService) GetSignals(inviteID uuid.UUID) (*dto.SignalsResponseDTO, error) {
	signals, err := s.signalRepo.FindSignalsByInviteID(inviteID)
	if err != nil {
		return nil, fmt.Errorf("listing signals: %w", err)
	}

	dtos := make([]dto.SignalDTO, 0, len(signals))
	for _, sig := range signals {
		dtos = append(dtos, dto.SignalDTO{
			ID:        sig.ID,
			Type:      sig.Type,
			Payload:   json.RawMessage(sig.Data),
			CreatedAt: sig.CreatedAt,
		})
	}

	status := model.SignalSessionStatusEnded
	session, err := s.signalRepo.FindSessionByInviteID(inviteID)
	switch {
	case err == nil:
		status = session.Status
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no session yet
	default:
		return nil, fmt.Errorf("loading signal session: %w", err)
	}

	return &dto.SignalsResponseDTO{Signals: dtos, SessionStatus: status}, nil
}

func (s *signalingService) StartSession(inviteID uuid.UUID) error {
	// Monitoring may only attach to a live test session.
	invite, err := s.inviteRepo.FindByID(inviteID)
	if err != nil {
		return fmt.Errorf("no active test session found: %w", apperror.ErrNotFound)
	}
	if invite.Status != model.InviteStatusInProgress {
		return fmt.Errorf("test session is %s: %w", invite.Status, apperror.ErrNotFound)
	}

	session := model.SignalSession{
		InviteID: inviteID,
		Status:   model.SignalSessionStatusActive,
	}
	if err := s.signalRepo.UpsertSession(&session); err != nil {
		return fmt.Errorf("starting signal session: %w", err)
	}
	return nil
}

func (s *signalingService) EndSession(inviteID uuid.UUID) error {
	if err := s.signalRepo.SetSessionStatus(inviteID, model.SignalSessionStatusEnded); err != nil {
		return fmt.Errorf("ending signal session: %w", err)
	}
	cutoff := s.now().UTC().Add(-signalRetention)
	if err := s.signalRepo.DeleteSignalsBefore(inviteID, cutoff); err != nil {
		// Pruning is housekeeping; the session end already took effect.
		log.Warn().Err(err).Str("invite", inviteID.String()).Msg("Failed to prune old signals")
	}
	return nil
}
