package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/notifier"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
)

type InviteService interface {
	CreateInvite(adminID uuid.UUID, req dto.InviteCreateDTO) (*dto.InviteResponseDTO, error)
	GetInvites(adminID uuid.UUID) ([]dto.InviteResponseDTO, error)
	// GetMyInvites lists the invites addressed to the given applicant email,
	// joined with the tests they grant access to.
	GetMyInvites(email string) ([]dto.MyInviteDTO, error)
}

type inviteService struct {
	inviteRepo repository.InviteRepository
	testRepo   repository.TestRepository
	notifier   notifier.Notifier
}

func NewInviteService(inviteRepo repository.InviteRepository, testRepo repository.TestRepository, notif notifier.Notifier) InviteService {
	return &inviteService{inviteRepo: inviteRepo, testRepo: testRepo, notifier: notif}
}

func (s *inviteService) CreateInvite(adminID uuid.UUID, req dto.InviteCreateDTO) (*dto.InviteResponseDTO, error) {
	test, err := s.testRepo.FindByID(req.TestID)
	if err != nil {
		return nil, fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}

	invite := model.Invite{
		TestID:         test.ID,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantName:  req.ApplicantName,
		InvitedBy:      adminID,
		Status:         model.InviteStatusSent,
	}
	if err := s.inviteRepo.Create(&invite); err != nil {
		log.Error().Err(err).Str("email", req.ApplicantEmail).Msg("Failed to create invite")
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	// Best effort; the invite is persisted regardless of delivery.
	s.notifier.SendInviteEmail(invite.ApplicantEmail, invite.ApplicantName, test.Title, invite.InviteToken.String())

	var resp dto.InviteResponseDTO
	copier.Copy(&resp, &invite)
	return &resp, nil
}

func (s *inviteService) GetInvites(adminID uuid.UUID) ([]dto.InviteResponseDTO, error) {
	invites, err := s.inviteRepo.FindAllByInviter(adminID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list invites")
		return nil, fmt.Errorf("listing invites: %w", err)
	}

	dtos := make([]dto.InviteResponseDTO, 0, len(invites))
	for _, inv := range invites {
		var resp dto.InviteResponseDTO
		copier.Copy(&resp, &inv)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *inviteService) GetMyInvites(email string) ([]dto.MyInviteDTO, error) {
	invites, err := s.inviteRepo.FindAllByEmail(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to list applicant invites")
		return nil, fmt.Errorf("listing invites: %w", err)
	}

	dtos := make([]dto.MyInviteDTO, 0, len(invites))
	for _, inv := range invites {
		dtos = append(dtos, dto.MyInviteDTO{
			ID:              inv.ID,
			TestID:          inv.TestID,
			TestTitle:       inv.Test.Title,
			DurationMinutes: inv.Test.DurationMinutes,
			InviteToken:     inv.InviteToken,
			ScheduledDate:   inv.ScheduledDate,
			Status:          inv.Status,
			StartedAt:       inv.StartedAt,
			CreatedAt:       inv.CreatedAt,
		})
	}
	return dtos, nil
}
