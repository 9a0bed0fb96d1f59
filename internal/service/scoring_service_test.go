package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func mcQuestion(points float64, correct string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Type:          model.QuestionTypeMultipleChoice,
		Prompt:        "pick one",
		Options:       []string{"a", "b"},
		CorrectAnswer: strPtr(correct),
		Points:        points,
	}
}

func essayQuestion(points float64) model.Question {
	return model.Question{
		ID:     uuid.New(),
		Type:   model.QuestionTypeEssay,
		Prompt: "explain",
		Points: points,
	}
}

func TestEvaluateSubmissionAutoOnly(t *testing.T) {
	svc := &scoringService{now: time.Now}
	q1 := mcQuestion(10, "a")
	q2 := mcQuestion(10, "b")
	invite := &model.Invite{ID: uuid.New(), TestID: uuid.New(), ApplicantEmail: "x@y.z"}

	sub := svc.EvaluateSubmission(invite, []model.Question{q1, q2}, map[uuid.UUID]string{
		q1.ID: "a",
		q2.ID: "a", // wrong
	}, time.Now())

	if sub.ScoringStatus != model.ScoringStatusAutoOnly {
		t.Errorf("status = %q, want auto_only", sub.ScoringStatus)
	}
	if sub.AutoScore != 50 {
		t.Errorf("auto score = %v, want 50", sub.AutoScore)
	}
	if sub.FinalScore != 50 {
		t.Errorf("final score = %v, want 50", sub.FinalScore)
	}
	if len(sub.Answers) != 2 {
		t.Errorf("expected 2 answer rows, got %d", len(sub.Answers))
	}
	for _, a := range sub.Answers {
		if a.ManualScoreStatus != nil {
			t.Error("auto-graded answers must have no manual score status")
		}
	}
}

func TestEvaluateSubmissionMixedNeedsReview(t *testing.T) {
	svc := &scoringService{now: time.Now}
	mc := mcQuestion(10, "a")
	essay := essayQuestion(10)
	invite := &model.Invite{ID: uuid.New(), TestID: uuid.New(), ApplicantEmail: "x@y.z"}

	sub := svc.EvaluateSubmission(invite, []model.Question{mc, essay}, map[uuid.UUID]string{
		mc.ID:    "a",
		essay.ID: "my essay",
	}, time.Now())

	if sub.ScoringStatus != model.ScoringStatusNeedsReview {
		t.Errorf("status = %q, want needs_review", sub.ScoringStatus)
	}
	if sub.AutoScore != 100 {
		t.Errorf("auto score = %v, want 100", sub.AutoScore)
	}
	// Interim final score before review equals the auto percentage.
	if sub.FinalScore != 100 {
		t.Errorf("interim final score = %v, want 100", sub.FinalScore)
	}
}

func TestEvaluateSubmissionManualOnlyInterimZero(t *testing.T) {
	svc := &scoringService{now: time.Now}
	essay := essayQuestion(10)
	invite := &model.Invite{ID: uuid.New(), TestID: uuid.New(), ApplicantEmail: "x@y.z"}

	sub := svc.EvaluateSubmission(invite, []model.Question{essay}, map[uuid.UUID]string{
		essay.ID: "my essay",
	}, time.Now())

	if sub.AutoScore != 0 {
		t.Errorf("auto score = %v, want 0 with no multiple-choice points", sub.AutoScore)
	}
	if sub.FinalScore != 0 {
		t.Errorf("interim final score = %v, want 0", sub.FinalScore)
	}
	if sub.ScoringStatus != model.ScoringStatusNeedsReview {
		t.Errorf("status = %q, want needs_review", sub.ScoringStatus)
	}
}

func TestEvaluateSubmissionBlankIsNotCorrect(t *testing.T) {
	svc := &scoringService{now: time.Now}
	// Pathological question with an empty correct answer: a blank submission
	// must still not earn the points.
	q := mcQuestion(10, "")
	invite := &model.Invite{ID: uuid.New(), TestID: uuid.New(), ApplicantEmail: "x@y.z"}

	sub := svc.EvaluateSubmission(invite, []model.Question{q}, map[uuid.UUID]string{}, time.Now())
	if sub.AutoScore != 0 {
		t.Errorf("auto score = %v, want 0", sub.AutoScore)
	}
}

type scoringHarness struct {
	svc        *scoringService
	subRepo    *fakeSubmissionRepo
	answerRepo *fakeAnswerRepo
	now        time.Time
}

func newScoringHarness(t *testing.T) *scoringHarness {
	t.Helper()
	inviteRepo := newFakeInviteRepo()
	answerRepo := newFakeAnswerRepo()
	subRepo := newFakeSubmissionRepo(inviteRepo, answerRepo)
	svc := NewScoringService(subRepo, answerRepo, &fakeLocker{}).(*scoringService)
	h := &scoringHarness{
		svc:        svc,
		subRepo:    subRepo,
		answerRepo: answerRepo,
		now:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return h.now }
	return h
}

// seedSubmission stores a submission awaiting review plus its answer rows.
func (h *scoringHarness) seedSubmission(autoScore float64, answers []model.Answer) *model.Submission {
	sub := &model.Submission{
		ID:            uuid.New(),
		InviteID:      uuid.New(),
		TestID:        uuid.New(),
		AutoScore:     autoScore,
		FinalScore:    autoScore,
		ScoringStatus: model.ScoringStatusNeedsReview,
		SubmittedAt:   h.now,
	}
	h.subRepo.Update(sub)
	for i := range answers {
		answers[i].SubmissionID = sub.ID
		h.answerRepo.add(answers[i])
	}
	return sub
}

func pendingAnswer(q model.Question, text string) model.Answer {
	pending := model.ManualScoreStatusPending
	return model.Answer{
		ID:                uuid.New(),
		QuestionID:        q.ID,
		Question:          q,
		AnswerText:        text,
		ManualScoreStatus: &pending,
	}
}

func autoAnswer(q model.Question, text string) model.Answer {
	return model.Answer{
		ID:         uuid.New(),
		QuestionID: q.ID,
		Question:   q,
		AnswerText: text,
	}
}

func TestScoreAnswerRejectsAutoGraded(t *testing.T) {
	h := newScoringHarness(t)
	mc := mcQuestion(10, "a")
	sub := h.seedSubmission(100, []model.Answer{autoAnswer(mc, "a")})
	answers, _ := h.answerRepo.FindBySubmissionID(sub.ID)

	_, err := h.svc.ScoreAnswer(uuid.New(), answers[0].ID, dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(5),
		Status: model.ManualScoreStatusCorrect,
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestScoreAnswerUnknownAnswer(t *testing.T) {
	h := newScoringHarness(t)
	_, err := h.svc.ScoreAnswer(uuid.New(), uuid.New(), dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(5),
		Status: model.ManualScoreStatusCorrect,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScoreAnswerFinalizesBlendedScore(t *testing.T) {
	h := newScoringHarness(t)
	mc := mcQuestion(10, "a")
	essay := essayQuestion(10)
	// Multiple choice fully correct (auto 100), one essay worth 10 points.
	sub := h.seedSubmission(100, []model.Answer{
		autoAnswer(mc, "a"),
		pendingAnswer(essay, "my essay"),
	})

	var essayAnswerID uuid.UUID
	answers, _ := h.answerRepo.FindBySubmissionID(sub.ID)
	for _, a := range answers {
		if a.Question.Type == model.QuestionTypeEssay {
			essayAnswerID = a.ID
		}
	}

	reviewer := uuid.New()
	resp, err := h.svc.ScoreAnswer(reviewer, essayAnswerID, dto.ScoreAnswerRequestDTO{
		Score:    floatPtr(6),
		Status:   model.ManualScoreStatusPartial,
		Comments: "decent",
	})
	if err != nil {
		t.Fatalf("ScoreAnswer: %v", err)
	}
	if resp.ScoringStatus != model.ScoringStatusFullyReviewed {
		t.Fatalf("status = %q, want fully_reviewed", resp.ScoringStatus)
	}
	// (100% of 10 auto points + 6 manual points) / 20 total points = 80%.
	if resp.FinalScore == nil || *resp.FinalScore != 80 {
		t.Errorf("final score = %v, want 80", resp.FinalScore)
	}

	got, _ := h.subRepo.FindByID(sub.ID)
	if got.ManualScore == nil || *got.ManualScore != 6 {
		t.Errorf("manual score = %v, want 6", got.ManualScore)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != reviewer {
		t.Errorf("reviewed_by = %v, want %v", got.ReviewedBy, reviewer)
	}
	if got.ReviewCompletedAt == nil {
		t.Error("review_completed_at not set")
	}
}

func TestScoreAnswerPartialThenFullProgression(t *testing.T) {
	h := newScoringHarness(t)
	e1 := essayQuestion(10)
	e2 := essayQuestion(10)
	sub := h.seedSubmission(0, []model.Answer{
		pendingAnswer(e1, "first"),
		pendingAnswer(e2, "second"),
	})

	answers, _ := h.answerRepo.FindBySubmissionID(sub.ID)
	first, second := answers[0], answers[1]

	resp, err := h.svc.ScoreAnswer(uuid.New(), first.ID, dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(10),
		Status: model.ManualScoreStatusCorrect,
	})
	if err != nil {
		t.Fatalf("first ScoreAnswer: %v", err)
	}
	if resp.ScoringStatus != model.ScoringStatusPartiallyReviewed {
		t.Errorf("after one review: status = %q, want partially_reviewed", resp.ScoringStatus)
	}
	if resp.PendingCount != 1 {
		t.Errorf("pending count = %d, want 1", resp.PendingCount)
	}
	if resp.FinalScore != nil {
		t.Error("final score must not be reported before full review")
	}

	resp, err = h.svc.ScoreAnswer(uuid.New(), second.ID, dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(5),
		Status: model.ManualScoreStatusPartial,
	})
	if err != nil {
		t.Fatalf("second ScoreAnswer: %v", err)
	}
	if resp.ScoringStatus != model.ScoringStatusFullyReviewed {
		t.Errorf("after full review: status = %q, want fully_reviewed", resp.ScoringStatus)
	}
	// Manual-only test: (10 + 5) / 20 points = 75%.
	if resp.FinalScore == nil || *resp.FinalScore != 75 {
		t.Errorf("final score = %v, want 75", resp.FinalScore)
	}
}

func TestScoreAnswerZeroesUnattemptedBlanks(t *testing.T) {
	h := newScoringHarness(t)
	e1 := essayQuestion(10)
	e2 := essayQuestion(10)
	sub := h.seedSubmission(0, []model.Answer{
		pendingAnswer(e1, "attempted"),
		pendingAnswer(e2, ""), // left blank by the applicant
	})

	var attemptedID, blankID uuid.UUID
	answers, _ := h.answerRepo.FindBySubmissionID(sub.ID)
	for _, a := range answers {
		if a.AnswerText == "" {
			blankID = a.ID
		} else {
			attemptedID = a.ID
		}
	}

	// Reviewing the only attempted answer finalizes: the blank one is zeroed
	// automatically rather than holding the submission in review forever.
	resp, err := h.svc.ScoreAnswer(uuid.New(), attemptedID, dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(10),
		Status: model.ManualScoreStatusCorrect,
	})
	if err != nil {
		t.Fatalf("ScoreAnswer: %v", err)
	}
	if resp.ScoringStatus != model.ScoringStatusFullyReviewed {
		t.Fatalf("status = %q, want fully_reviewed", resp.ScoringStatus)
	}
	if resp.FinalScore == nil || *resp.FinalScore != 50 {
		t.Errorf("final score = %v, want 50", resp.FinalScore)
	}

	blank, _ := h.answerRepo.FindByID(blankID)
	if blank.ManualScore == nil || *blank.ManualScore != 0 {
		t.Errorf("blank answer score = %v, want 0", blank.ManualScore)
	}
	if blank.ManualScoreStatus == nil || *blank.ManualScoreStatus != model.ManualScoreStatusWrong {
		t.Errorf("blank answer status = %v, want wrong", blank.ManualScoreStatus)
	}
	if blank.ReviewComments == "" {
		t.Error("blank answer should carry an explanatory comment")
	}
}

func TestScoreAnswerZeroPointsTest(t *testing.T) {
	h := newScoringHarness(t)
	e := essayQuestion(0)
	sub := h.seedSubmission(0, []model.Answer{pendingAnswer(e, "text")})
	answers, _ := h.answerRepo.FindBySubmissionID(sub.ID)

	resp, err := h.svc.ScoreAnswer(uuid.New(), answers[0].ID, dto.ScoreAnswerRequestDTO{
		Score:  floatPtr(0),
		Status: model.ManualScoreStatusWrong,
	})
	if err != nil {
		t.Fatalf("ScoreAnswer: %v", err)
	}
	if resp.FinalScore == nil || *resp.FinalScore != 0 {
		t.Errorf("final score = %v, want 0 for a zero-point test", resp.FinalScore)
	}
}
