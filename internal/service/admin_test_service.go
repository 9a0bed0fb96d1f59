package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminTestService interface {
	CreateTest(adminID uuid.UUID, req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
	GetTests(adminID uuid.UUID) ([]dto.TestResponseDTO, error)
	GetTest(adminID, testID uuid.UUID) (*dto.TestResponseDTO, error)
	// UpdateTest changes test metadata. Forbidden while any invite for the
	// test is in_progress.
	UpdateTest(adminID, testID uuid.UUID, req dto.TestUpdateDTO) (*dto.TestResponseDTO, error)
	// DeleteTest soft-deletes. Forbidden while open invites exist.
	DeleteTest(adminID, testID uuid.UUID) error
}

type adminTestService struct {
	testRepo   repository.TestRepository
	inviteRepo repository.InviteRepository
}

func NewAdminTestService(testRepo repository.TestRepository, inviteRepo repository.InviteRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo, inviteRepo: inviteRepo}
}

func (s *adminTestService) CreateTest(adminID uuid.UUID, req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, qDto := range req.Questions {
		if qDto.Type == model.QuestionTypeMultipleChoice {
			if len(qDto.Options) < 2 {
				return nil, fmt.Errorf("multiple choice question %d needs at least 2 options: %w", i+1, apperror.ErrValidation)
			}
			if qDto.CorrectAnswer == nil || *qDto.CorrectAnswer == "" {
				return nil, fmt.Errorf("multiple choice question %d needs a correct answer: %w", i+1, apperror.ErrValidation)
			}
		}

		var question model.Question
		copier.Copy(&question, &qDto)
		question.QuestionOrder = i
		questions = append(questions, question)
	}

	test := model.Test{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       adminID,
		IsActive:        true,
		Questions:       questions,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Msg("Failed to create test")
		return nil, fmt.Errorf("creating test: %w", err)
	}

	created, err := s.testRepo.FindByIDWithQuestions(test.ID)
	if err != nil {
		log.Error().Err(err).Str("test", test.ID.String()).Msg("Failed to reload created test")
		created = &test
	}

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, created); err != nil {
		return nil, fmt.Errorf("preparing response: %w", err)
	}
	return &resp, nil
}

func (s *adminTestService) GetTests(adminID uuid.UUID) ([]dto.TestResponseDTO, error) {
	tests, err := s.testRepo.FindAllByCreator(adminID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tests")
		return nil, fmt.Errorf("listing tests: %w", err)
	}

	dtos := make([]dto.TestResponseDTO, 0, len(tests))
	for _, t := range tests {
		var resp dto.TestResponseDTO
		copier.Copy(&resp, &t)
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *adminTestService) GetTest(adminID, testID uuid.UUID) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}
	if test.CreatedBy != adminID {
		return nil, fmt.Errorf("test belongs to another admin: %w", apperror.ErrForbidden)
	}

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, test); err != nil {
		return nil, fmt.Errorf("preparing response: %w", err)
	}
	return &resp, nil
}

func (s *adminTestService) UpdateTest(adminID, testID uuid.UUID, req dto.TestUpdateDTO) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}
	if test.CreatedBy != adminID {
		return nil, fmt.Errorf("test belongs to another admin: %w", apperror.ErrForbidden)
	}

	inProgress, err := s.inviteRepo.CountByTestAndStatuses(testID, []string{model.InviteStatusInProgress})
	if err != nil {
		return nil, fmt.Errorf("checking active sessions: %w", err)
	}
	if inProgress > 0 {
		return nil, fmt.Errorf("test has applicants currently taking it: %w", apperror.ErrForbidden)
	}

	test.Title = req.Title
	test.Description = req.Description
	test.DurationMinutes = req.DurationMinutes
	if err := s.testRepo.Update(test); err != nil {
		log.Error().Err(err).Str("test", testID.String()).Msg("Failed to update test")
		return nil, fmt.Errorf("updating test: %w", err)
	}

	var resp dto.TestResponseDTO
	copier.Copy(&resp, test)
	return &resp, nil
}

func (s *adminTestService) DeleteTest(adminID, testID uuid.UUID) error {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		return fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}
	if test.CreatedBy != adminID {
		return fmt.Errorf("test belongs to another admin: %w", apperror.ErrForbidden)
	}

	open, err := s.inviteRepo.CountByTestAndStatuses(testID, []string{
		model.InviteStatusSent, model.InviteStatusScheduled, model.InviteStatusInProgress,
	})
	if err != nil {
		return fmt.Errorf("checking open invites: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("test has active invitations, cancel them first: %w", apperror.ErrForbidden)
	}

	if err := s.testRepo.Deactivate(testID); err != nil {
		log.Error().Err(err).Str("test", testID.String()).Msg("Failed to delete test")
		return fmt.Errorf("deleting test: %w", err)
	}
	return nil
}
