package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
)

type ResultsService interface {
	GetResults() ([]dto.SubmissionSummaryDTO, error)
	GetResultDetail(submissionID uuid.UUID) (*dto.SubmissionDetailDTO, error)
	// GetScoringQueue lists submissions still waiting on manual review.
	GetScoringQueue() ([]dto.SubmissionSummaryDTO, error)
}

type resultsService struct {
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
}

func NewResultsService(submissionRepo repository.SubmissionRepository, answerRepo repository.AnswerRepository) ResultsService {
	return &resultsService{submissionRepo: submissionRepo, answerRepo: answerRepo}
}

func (s *resultsService) GetResults() ([]dto.SubmissionSummaryDTO, error) {
	submissions, err := s.submissionRepo.FindAllWithDetails()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list submissions")
		return nil, fmt.Errorf("listing results: %w", err)
	}
	return summarize(submissions), nil
}

func (s *resultsService) GetScoringQueue() ([]dto.SubmissionSummaryDTO, error) {
	submissions, err := s.submissionRepo.FindByScoringStatuses([]string{
		model.ScoringStatusNeedsReview, model.ScoringStatusPartiallyReviewed,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list scoring queue")
		return nil, fmt.Errorf("listing scoring queue: %w", err)
	}
	return summarize(submissions), nil
}

func (s *resultsService) GetResultDetail(submissionID uuid.UUID) (*dto.SubmissionDetailDTO, error) {
	submission, err := s.submissionRepo.FindByIDWithDetails(submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
	}

	answers := make([]dto.AnswerReviewDTO, 0, len(submission.Answers))
	for _, a := range submission.Answers {
		answers = append(answers, dto.AnswerReviewDTO{
			ID:                a.ID,
			QuestionID:        a.QuestionID,
			QuestionPrompt:    a.Question.Prompt,
			QuestionType:      a.Question.Type,
			Points:            a.Question.Points,
			CorrectAnswer:     a.Question.CorrectAnswer,
			AnswerText:        a.AnswerText,
			ManualScore:       a.ManualScore,
			ManualScoreStatus: a.ManualScoreStatus,
			ReviewComments:    a.ReviewComments,
			ReviewedBy:        a.ReviewedBy,
			ReviewedAt:        a.ReviewedAt,
		})
	}

	detail := &dto.SubmissionDetailDTO{
		SubmissionSummaryDTO: toSummary(*submission),
		ReviewedBy:           submission.ReviewedBy,
		ReviewCompletedAt:    submission.ReviewCompletedAt,
		Answers:              answers,
	}
	return detail, nil
}

func summarize(submissions []model.Submission) []dto.SubmissionSummaryDTO {
	dtos := make([]dto.SubmissionSummaryDTO, 0, len(submissions))
	for _, sub := range submissions {
		dtos = append(dtos, toSummary(sub))
	}
	return dtos
}

func toSummary(sub model.Submission) dto.SubmissionSummaryDTO {
	return dto.SubmissionSummaryDTO{
		ID:             sub.ID,
		InviteID:       sub.InviteID,
		TestID:         sub.TestID,
		TestTitle:      sub.Test.Title,
		ApplicantEmail: sub.ApplicantEmail,
		ApplicantName:  sub.Invite.ApplicantName,
		StartedAt:      sub.StartedAt,
		SubmittedAt:    sub.SubmittedAt,
		AutoScore:      sub.AutoScore,
		ManualScore:    sub.ManualScore,
		FinalScore:     sub.FinalScore,
		ScoringStatus:  sub.ScoringStatus,
		IsMonitored:    sub.IsMonitored,
	}
}
