package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
)

const unattemptedComment = "Not attempted by applicant; scored 0 automatically."

// ScoringService computes the automatic score at submission time and runs the
// asynchronous manual-review pass that produces the final blended score.
type ScoringService interface {
	// EvaluateSubmission builds the submission for an in_progress invite:
	// auto-grades the multiple-choice answers, writes one answer row per
	// question (blank text for unattempted ones) and classifies the scoring
	// status. Pure computation; nothing is persisted.
	EvaluateSubmission(invite *model.Invite, questions []model.Question, answers map[uuid.UUID]string, now time.Time) *model.Submission
	// ScoreAnswer records one manual review action and advances the
	// submission's review state, finalizing the blended score once every
	// attempted manual answer has been reviewed.
	ScoreAnswer(reviewerID, answerID uuid.UUID, req dto.ScoreAnswerRequestDTO) (*dto.ScoreAnswerResponseDTO, error)
}

type scoringService struct {
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
	locker         repository.KeyLocker
	now            func() time.Time
}

func NewScoringService(
	submissionRepo repository.SubmissionRepository,
	answerRepo repository.AnswerRepository,
	locker repository.KeyLocker,
) ScoringService {
	return &scoringService{
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		locker:         locker,
		now:            time.Now,
	}
}

func (s *scoringService) EvaluateSubmission(invite *model.Invite, questions []model.Question, answers map[uuid.UUID]string, now time.Time) *model.Submission {
	var totalAutoPoints, autoScoreRaw float64
	hasManual := false

	rows := make([]model.Answer, 0, len(questions))
	for _, q := range questions {
		text := answers[q.ID] // empty string = unattempted
		row := model.Answer{
			QuestionID: q.ID,
			AnswerText: text,
		}
		switch {
		case q.Type == model.QuestionTypeMultipleChoice:
			totalAutoPoints += q.Points
			if q.CorrectAnswer != nil && text == *q.CorrectAnswer && text != "" {
				autoScoreRaw += q.Points
			}
		case q.IsManuallyScored():
			hasManual = true
			pending := model.ManualScoreStatusPending
			row.ManualScoreStatus = &pending
		}
		rows = append(rows, row)
	}

	autoPct := 0.0
	if totalAutoPoints > 0 {
		autoPct = autoScoreRaw / totalAutoPoints * 100
	}

	scoringStatus := model.ScoringStatusAutoOnly
	finalScore := autoPct
	if hasManual {
		scoringStatus = model.ScoringStatusNeedsReview
		// Interim score shown until review completes; zero for manual-only
		// tests since no points have been earned yet.
		if totalAutoPoints == 0 {
			finalScore = 0
		}
	}

	return &model.Submission{
		InviteID:       invite.ID,
		TestID:         invite.TestID,
		ApplicantEmail: invite.ApplicantEmail,
		StartedAt:      invite.StartedAt,
		SubmittedAt:    now,
		AutoScore:      autoPct,
		FinalScore:     finalScore,
		ScoringStatus:  scoringStatus,
		Answers:        rows,
	}
}

func (s *scoringService) ScoreAnswer(reviewerID, answerID uuid.UUID, req dto.ScoreAnswerRequestDTO) (*dto.ScoreAnswerResponseDTO, error) {
	answer, err := s.answerRepo.FindByID(answerID)
	if err != nil {
		return nil, fmt.Errorf("answer not found: %w", apperror.ErrNotFound)
	}
	if !answer.Question.IsManuallyScored() {
		return nil, fmt.Errorf("question type %s is auto-graded: %w", answer.Question.Type, apperror.ErrValidation)
	}

	var resp *dto.ScoreAnswerResponseDTO

	// Concurrent review actions on sibling answers must not both observe
	// "zero pending" and finalize twice; serialize per submission and
	// re-count inside the lock.
	lockKey := "scoring:submission:" + answer.SubmissionID.String()
	err = s.locker.WithLock(lockKey, func() error {
		submission, err := s.submissionRepo.FindByID(answer.SubmissionID)
		if err != nil {
			return fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}

		reviewedAt := s.now().UTC()
		status := req.Status
		answer.ManualScore = req.Score
		answer.ManualScoreStatus = &status
		answer.ReviewComments = req.Comments
		answer.ReviewedBy = &reviewerID
		answer.ReviewedAt = &reviewedAt
		if err := s.answerRepo.Update(answer); err != nil {
			return fmt.Errorf("updating answer review: %w", err)
		}

		// Blanks are zeroed on every action, not just once, so answers from
		// late-arriving submissions get resolved too.
		if err := s.answerRepo.ZeroUnattemptedPending(answer.SubmissionID, unattemptedComment); err != nil {
			return fmt.Errorf("resolving unattempted answers: %w", err)
		}

		pending, err := s.answerRepo.CountPendingAttempted(answer.SubmissionID)
		if err != nil {
			return fmt.Errorf("counting pending answers: %w", err)
		}

		if pending > 0 {
			submission.ScoringStatus = model.ScoringStatusPartiallyReviewed
			if err := s.submissionRepo.Update(submission); err != nil {
				return fmt.Errorf("updating submission review state: %w", err)
			}
			resp = &dto.ScoreAnswerResponseDTO{
				Message:       "Answer scored",
				ScoringStatus: submission.ScoringStatus,
				PendingCount:  pending,
			}
			return nil
		}

		if err := s.finalize(submission, reviewerID, reviewedAt); err != nil {
			return err
		}
		resp = &dto.ScoreAnswerResponseDTO{
			Message:       "Answer scored, review complete",
			ScoringStatus: submission.ScoringStatus,
			FinalScore:    &submission.FinalScore,
			PendingCount:  0,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// finalize recomputes the blended final score once every attempted manual
// answer has been reviewed. The blend is points-weighted, not an average of
// percentages.
func (s *scoringService) finalize(submission *model.Submission, reviewerID uuid.UUID, completedAt time.Time) error {
	answers, err := s.answerRepo.FindBySubmissionID(submission.ID)
	if err != nil {
		return fmt.Errorf("loading answers for finalization: %w", err)
	}

	var totalAutoPoints, totalManualPoints, totalManualScore float64
	for _, a := range answers {
		switch {
		case a.Question.Type == model.QuestionTypeMultipleChoice:
			totalAutoPoints += a.Question.Points
		case a.Question.IsManuallyScored():
			totalManualPoints += a.Question.Points
			if a.ManualScore != nil {
				totalManualScore += *a.ManualScore
			}
		}
	}

	totalPoints := totalAutoPoints + totalManualPoints
	var finalScore float64
	switch {
	case totalPoints == 0:
		finalScore = 0
	case totalAutoPoints > 0 && totalManualPoints > 0:
		finalScore = ((submission.AutoScore/100)*totalAutoPoints + totalManualScore) / totalPoints * 100
	case totalManualPoints > 0:
		finalScore = totalManualScore / totalManualPoints * 100
	default:
		finalScore = submission.AutoScore
	}

	manualScore := totalManualScore
	submission.ManualScore = &manualScore
	submission.FinalScore = finalScore
	submission.ScoringStatus = model.ScoringStatusFullyReviewed
	submission.ReviewedBy = &reviewerID
	submission.ReviewCompletedAt = &completedAt

	if err := s.submissionRepo.Update(submission); err != nil {
		return fmt.Errorf("finalizing submission score: %w", err)
	}
	log.Info().
		Str("submission", submission.ID.String()).
		Float64("final_score", finalScore).
		Msg("Submission review finalized")
	return nil
}
