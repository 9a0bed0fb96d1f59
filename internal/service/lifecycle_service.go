package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/notifier"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LifecycleService owns the invite state machine:
// sent → scheduled → in_progress → completed, with expired as a reachable
// terminal driven by policy outside this service.
type LifecycleService interface {
	// ReadInvite is the public-by-token invite page: invite plus test with
	// correct answers stripped. No window enforcement; that happens in
	// ReadForTaking.
	ReadInvite(token uuid.UUID) (*dto.TakeTestResponseDTO, error)
	// Schedule sets the scheduled date and forces status to scheduled. The
	// date is deliberately not validated against the clock; the window check
	// happens at taking time.
	Schedule(token uuid.UUID, scheduledDate time.Time) error
	// ReadForTaking returns the test for taking. Scheduled, not-yet-started
	// invites must be within ±30 minutes of their scheduled date. For an
	// in_progress session it also returns the remaining time.
	ReadForTaking(token uuid.UUID) (*dto.TakeTestResponseDTO, error)
	// Start transitions the invite to in_progress, enforcing the
	// single-active-session rule per applicant email.
	Start(token uuid.UUID) (*dto.StartTestResponseDTO, error)
	// Submit scores the answers, creates the submission and atomically flips
	// the invite to completed.
	Submit(token uuid.UUID, req dto.SubmitTestRequestDTO) (*dto.SubmitTestResponseDTO, error)
}

type lifecycleService struct {
	inviteRepo     repository.InviteRepository
	testRepo       repository.TestRepository
	submissionRepo repository.SubmissionRepository
	signalRepo     repository.SignalRepository
	scoring        ScoringService
	locker         repository.KeyLocker
	notifier       notifier.Notifier
	now            func() time.Time
}

func NewLifecycleService(
	inviteRepo repository.InviteRepository,
	testRepo repository.TestRepository,
	submissionRepo repository.SubmissionRepository,
	signalRepo repository.SignalRepository,
	scoring ScoringService,
	locker repository.KeyLocker,
	notif notifier.Notifier,
) LifecycleService {
	return &lifecycleService{
		inviteRepo:     inviteRepo,
		testRepo:       testRepo,
		submissionRepo: submissionRepo,
		signalRepo:     signalRepo,
		scoring:        scoring,
		locker:         locker,
		notifier:       notif,
		now:            time.Now,
	}
}

func (s *lifecycleService) ReadInvite(token uuid.UUID) (*dto.TakeTestResponseDTO, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid invite token: %w", apperror.ErrNotFound)
	}
	return s.buildTakeTestResponse(invite, false)
}

func (s *lifecycleService) Schedule(token uuid.UUID, scheduledDate time.Time) error {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return fmt.Errorf("invalid invite token: %w", apperror.ErrNotFound)
	}
	switch invite.Status {
	case model.InviteStatusSent, model.InviteStatusScheduled:
		// re-scheduling an already scheduled test is allowed
	default:
		return fmt.Errorf("invite cannot be scheduled from status %s: %w", invite.Status, apperror.ErrNotFound)
	}
	if err := s.inviteRepo.Schedule(invite.ID, scheduledDate); err != nil {
		log.Error().Err(err).Str("invite", invite.ID.String()).Msg("Failed to schedule invite")
		return fmt.Errorf("scheduling invite: %w", err)
	}
	return nil
}

func (s *lifecycleService) ReadForTaking(token uuid.UUID) (*dto.TakeTestResponseDTO, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired test invite: %w", apperror.ErrNotFound)
	}
	if !invite.IsOpen() {
		return nil, fmt.Errorf("test invite is %s: %w", invite.Status, apperror.ErrNotFound)
	}

	// A scheduled test constrains when starting is allowed; a resumed
	// in_progress session bypasses the window.
	if invite.ScheduledDate != nil && invite.Status != model.InviteStatusInProgress {
		now := s.now().UTC()
		scheduled := invite.ScheduledDate.UTC()
		if scheduled.After(now.Add(model.StartWindow)) || scheduled.Before(now.Add(-model.StartWindow)) {
			return nil, fmt.Errorf("test can only be taken within 30 minutes of the scheduled time: %w", apperror.ErrOutOfWindow)
		}
	}

	return s.buildTakeTestResponse(invite, true)
}

func (s *lifecycleService) Start(token uuid.UUID) (*dto.StartTestResponseDTO, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid test token: %w", apperror.ErrNotFound)
	}

	var resp *dto.StartTestResponseDTO
	var newlyStarted bool

	// The check-oldest-then-transition sequence is a check-then-act race when
	// the applicant has several invites; serialize it per applicant email.
	lockKey := "invite:start:" + strings.ToLower(invite.ApplicantEmail)
	err = s.locker.WithLock(lockKey, func() error {
		current, err := s.inviteRepo.FindByToken(token)
		if err != nil {
			return fmt.Errorf("invalid test token: %w", apperror.ErrNotFound)
		}

		if current.Status == model.InviteStatusInProgress {
			// Resuming an active session; re-entry is idempotent.
			resp = &dto.StartTestResponseDTO{
				Message:   "Test already in progress",
				Status:    current.Status,
				StartedAt: current.StartedAt,
			}
			return nil
		}
		if !current.IsOpen() {
			return fmt.Errorf("test invite is %s: %w", current.Status, apperror.ErrNotFound)
		}

		// Oldest test wins: an applicant with several assigned tests must
		// finish the one invited first before opening another. This is a
		// fairness rule against queue-jumping between assigned tests.
		_, err = s.inviteRepo.FindOtherInProgressByEmail(current.ApplicantEmail, current.ID)
		switch {
		case err == nil:
			oldest, oerr := s.inviteRepo.FindOldestOpenByEmail(current.ApplicantEmail)
			if oerr != nil {
				return fmt.Errorf("resolving oldest open invite: %w", oerr)
			}
			if oldest.ID != current.ID {
				return fmt.Errorf("please complete your oldest pending test first: %w", apperror.ErrConflict)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no conflicting session
		default:
			return fmt.Errorf("checking active sessions: %w", err)
		}

		startedAt := s.now().UTC()
		ok, err := s.inviteRepo.MarkInProgress(current.ID, startedAt)
		if err != nil {
			return fmt.Errorf("starting test: %w", err)
		}
		if !ok {
			return fmt.Errorf("test invite is no longer startable: %w", apperror.ErrNotFound)
		}

		newlyStarted = true
		resp = &dto.StartTestResponseDTO{
			Message:   "Test started successfully",
			Status:    model.InviteStatusInProgress,
			StartedAt: &startedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newlyStarted {
		// Best effort; a missed admin notification must never block the
		// applicant from starting.
		s.notifier.NotifyAdmins("test_started",
			fmt.Sprintf("%s started a test", invite.ApplicantName),
			map[string]interface{}{
				"invite_id":       invite.ID.String(),
				"test_id":         invite.TestID.String(),
				"applicant_email": invite.ApplicantEmail,
			})
	}
	return resp, nil
}

func (s *lifecycleService) Submit(token uuid.UUID, req dto.SubmitTestRequestDTO) (*dto.SubmitTestResponseDTO, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or inactive test session: %w", apperror.ErrInviteNotActive)
	}
	if invite.Status != model.InviteStatusInProgress {
		return nil, fmt.Errorf("invite status is %s: %w", invite.Status, apperror.ErrInviteNotActive)
	}

	test, err := s.testRepo.FindByIDWithQuestions(invite.TestID)
	if err != nil {
		return nil, fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}

	questionIDs := make(map[uuid.UUID]bool, len(test.Questions))
	for _, q := range test.Questions {
		questionIDs[q.ID] = true
	}
	answerMap := make(map[uuid.UUID]string, len(req.Answers))
	for _, a := range req.Answers {
		if !questionIDs[a.QuestionID] {
			log.Warn().Str("question", a.QuestionID.String()).Str("test", test.ID.String()).
				Msg("Submitted answer for a question not part of this test, skipping")
			continue
		}
		answerMap[a.QuestionID] = a.Answer
	}

	submission := s.scoring.EvaluateSubmission(invite, test.Questions, answerMap, s.now().UTC())

	if monitored, merr := s.signalRepo.SessionActive(invite.ID); merr == nil {
		submission.IsMonitored = monitored
	} else {
		log.Warn().Err(merr).Str("invite", invite.ID.String()).Msg("Could not determine monitoring state")
	}

	// The in_progress precondition, the status flip and the submission insert
	// land in one transaction; a retried submit fails on the precondition.
	if err := s.submissionRepo.CreateForInvite(submission); err != nil {
		if errors.Is(err, apperror.ErrInviteNotActive) {
			return nil, fmt.Errorf("test already submitted: %w", apperror.ErrInviteNotActive)
		}
		log.Error().Err(err).Str("invite", invite.ID.String()).Msg("Failed to persist submission")
		return nil, fmt.Errorf("persisting submission: %w", err)
	}

	return &dto.SubmitTestResponseDTO{
		Message:       "Test submitted successfully",
		SubmissionID:  submission.ID,
		AutoScore:     submission.AutoScore,
		FinalScore:    submission.FinalScore,
		ScoringStatus: submission.ScoringStatus,
	}, nil
}

// buildTakeTestResponse assembles the applicant-facing invite+test shape.
// Correct answers never appear in it.
func (s *lifecycleService) buildTakeTestResponse(invite *model.Invite, withRemaining bool) (*dto.TakeTestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(invite.TestID)
	if err != nil {
		return nil, fmt.Errorf("test not found: %w", apperror.ErrNotFound)
	}

	questions := make([]dto.TakeTestQuestionDTO, len(test.Questions))
	for i, q := range test.Questions {
		var qDTO dto.TakeTestQuestionDTO
		copier.Copy(&qDTO, &q)
		questions[i] = qDTO
	}

	resp := &dto.TakeTestResponseDTO{
		Invite: dto.TakeTestInviteDTO{
			ID:             invite.ID,
			TestID:         invite.TestID,
			ApplicantEmail: invite.ApplicantEmail,
			ApplicantName:  invite.ApplicantName,
			Status:         invite.Status,
			InviteToken:    invite.InviteToken,
			StartedAt:      invite.StartedAt,
		},
		Test: dto.TakeTestTestDTO{
			ID:              test.ID,
			Title:           test.Title,
			Description:     test.Description,
			DurationMinutes: test.DurationMinutes,
			Questions:       questions,
		},
	}

	if withRemaining && invite.Status == model.InviteStatusInProgress && invite.StartedAt != nil {
		elapsed := int64(s.now().UTC().Sub(invite.StartedAt.UTC()).Seconds())
		remaining := int64(test.DurationMinutes)*60 - elapsed
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingTimeSeconds = &remaining
	}
	return resp, nil
}
