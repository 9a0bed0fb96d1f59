package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement the same contracts as the
// postgres-backed repositories, including gorm.ErrRecordNotFound on misses and
// the conditional-update semantics the services rely on.

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[uuid.UUID]*model.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[uuid.UUID]*model.Invite)}
}

func (r *fakeInviteRepo) add(inv *model.Invite) *model.Invite {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.InviteToken == uuid.Nil {
		inv.InviteToken = uuid.New()
	}
	r.invites[inv.ID] = inv
	return inv
}

func (r *fakeInviteRepo) Create(invite *model.Invite) error {
	r.add(invite)
	return nil
}

func (r *fakeInviteRepo) FindByID(id uuid.UUID) (*model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invites[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) FindByToken(token uuid.UUID) (*model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invites {
		if inv.InviteToken == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) FindAllByInviter(adminID uuid.UUID) ([]model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invite
	for _, inv := range r.invites {
		if inv.InvitedBy == adminID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInviteRepo) FindAllByEmail(email string) ([]model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invite
	for _, inv := range r.invites {
		if inv.ApplicantEmail == email {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInviteRepo) FindOtherInProgressByEmail(email string, excludeID uuid.UUID) (*model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invites {
		if inv.ApplicantEmail == email && inv.Status == model.InviteStatusInProgress && inv.ID != excludeID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInviteRepo) FindOldestOpenByEmail(email string) (*model.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []*model.Invite
	for _, inv := range r.invites {
		if inv.ApplicantEmail == email && inv.IsOpen() {
			open = append(open, inv)
		}
	}
	if len(open) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })
	cp := *open[0]
	return &cp, nil
}

func (r *fakeInviteRepo) Schedule(id uuid.UUID, scheduledDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d := scheduledDate
	inv.ScheduledDate = &d
	inv.Status = model.InviteStatusScheduled
	return nil
}

func (r *fakeInviteRepo) MarkInProgress(id uuid.UUID, startedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[id]
	if !ok {
		return false, nil
	}
	if inv.Status != model.InviteStatusSent && inv.Status != model.InviteStatusScheduled {
		return false, nil
	}
	t := startedAt
	inv.Status = model.InviteStatusInProgress
	inv.StartedAt = &t
	return true, nil
}

func (r *fakeInviteRepo) CountByTestAndStatuses(testID uuid.UUID, statuses []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, inv := range r.invites {
		if inv.TestID != testID {
			continue
		}
		for _, s := range statuses {
			if inv.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

type fakeTestRepo struct {
	mu    sync.Mutex
	tests map[uuid.UUID]*model.Test
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[uuid.UUID]*model.Test)}
}

func (r *fakeTestRepo) add(t *model.Test) *model.Test {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Questions {
		if t.Questions[i].ID == uuid.Nil {
			t.Questions[i].ID = uuid.New()
		}
		t.Questions[i].TestID = t.ID
	}
	r.tests[t.ID] = t
	return t
}

func (r *fakeTestRepo) Create(test *model.Test) error {
	r.add(test)
	return nil
}

func (r *fakeTestRepo) FindByID(id uuid.UUID) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok || !t.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Questions = nil
	return &cp, nil
}

func (r *fakeTestRepo) FindByIDWithQuestions(id uuid.UUID) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok || !t.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Questions = append([]model.Question(nil), t.Questions...)
	sort.Slice(cp.Questions, func(i, j int) bool {
		return cp.Questions[i].QuestionOrder < cp.Questions[j].QuestionOrder
	})
	return &cp, nil
}

func (r *fakeTestRepo) FindAllByCreator(adminID uuid.UUID) ([]model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Test
	for _, t := range r.tests {
		if t.CreatedBy == adminID && t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTestRepo) Update(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) Deactivate(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsActive = false
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	invites     *fakeInviteRepo
	answers     *fakeAnswerRepo
	submissions map[uuid.UUID]*model.Submission
}

func newFakeSubmissionRepo(invites *fakeInviteRepo, answers *fakeAnswerRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		invites:     invites,
		answers:     answers,
		submissions: make(map[uuid.UUID]*model.Submission),
	}
}

func (r *fakeSubmissionRepo) CreateForInvite(submission *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites.mu.Lock()
	inv, ok := r.invites.invites[submission.InviteID]
	if !ok || inv.Status != model.InviteStatusInProgress {
		r.invites.mu.Unlock()
		return apperror.ErrInviteNotActive
	}
	inv.Status = model.InviteStatusCompleted
	r.invites.mu.Unlock()

	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	for i := range submission.Answers {
		if submission.Answers[i].ID == uuid.Nil {
			submission.Answers[i].ID = uuid.New()
		}
		submission.Answers[i].SubmissionID = submission.ID
		if r.answers != nil {
			r.answers.add(submission.Answers[i])
		}
	}
	cp := *submission
	r.submissions[submission.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) FindByID(id uuid.UUID) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.submissions[id]; ok {
		cp := *sub
		cp.Answers = nil
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSubmissionRepo) FindByIDWithDetails(id uuid.UUID) (*model.Submission, error) {
	return r.FindByID(id)
}

func (r *fakeSubmissionRepo) FindAllWithDetails() ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, sub := range r.submissions {
		out = append(out, *sub)
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindByScoringStatuses(statuses []string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, sub := range r.submissions {
		for _, s := range statuses {
			if sub.ScoringStatus == s {
				out = append(out, *sub)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Update(submission *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *submission
	r.submissions[submission.ID] = &cp
	return nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers map[uuid.UUID]*model.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[uuid.UUID]*model.Answer)}
}

func (r *fakeAnswerRepo) add(a model.Answer) *model.Answer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := a
	r.answers[a.ID] = &cp
	return &cp
}

func (r *fakeAnswerRepo) FindByID(id uuid.UUID) (*model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.answers[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAnswerRepo) FindBySubmissionID(submissionID uuid.UUID) ([]model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Answer
	for _, a := range r.answers {
		if a.SubmissionID == submissionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) Update(answer *model.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *answer
	r.answers[answer.ID] = &cp
	return nil
}

func (r *fakeAnswerRepo) ZeroUnattemptedPending(submissionID uuid.UUID, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.answers {
		if a.SubmissionID != submissionID || a.AnswerText != "" {
			continue
		}
		if a.ManualScoreStatus == nil || *a.ManualScoreStatus != model.ManualScoreStatusPending {
			continue
		}
		zero := 0.0
		wrong := model.ManualScoreStatusWrong
		a.ManualScore = &zero
		a.ManualScoreStatus = &wrong
		a.ReviewComments = comment
	}
	return nil
}

func (r *fakeAnswerRepo) CountPendingAttempted(submissionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.answers {
		if a.SubmissionID == submissionID && a.AnswerText != "" &&
			a.ManualScoreStatus != nil && *a.ManualScoreStatus == model.ManualScoreStatusPending {
			count++
		}
	}
	return count, nil
}

type fakeSignalRepo struct {
	mu       sync.Mutex
	signals  []model.Signal
	sessions map[uuid.UUID]*model.SignalSession
}

func newFakeSignalRepo() *fakeSignalRepo {
	return &fakeSignalRepo{sessions: make(map[uuid.UUID]*model.SignalSession)}
}

func (r *fakeSignalRepo) CreateSignal(signal *model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if signal.ID == uuid.Nil {
		signal.ID = uuid.New()
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}
	r.signals = append(r.signals, *signal)
	return nil
}

func (r *fakeSignalRepo) FindSignalsByInviteID(inviteID uuid.UUID) ([]model.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Signal
	for _, s := range r.signals {
		if s.InviteID == inviteID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSignalRepo) UpsertSession(session *model.SignalSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[session.InviteID]; ok {
		existing.Status = session.Status
		existing.AdminOfferID = session.AdminOfferID
		return nil
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	cp := *session
	r.sessions[session.InviteID] = &cp
	return nil
}

func (r *fakeSignalRepo) FindSessionByInviteID(inviteID uuid.UUID) (*model.SignalSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[inviteID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSignalRepo) SessionActive(inviteID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[inviteID]
	return ok && s.Status != model.SignalSessionStatusEnded, nil
}

func (r *fakeSignalRepo) SetSessionStatus(inviteID uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[inviteID]; ok {
		s.Status = status
	}
	return nil
}

func (r *fakeSignalRepo) DeleteSignalsBefore(inviteID uuid.UUID, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.signals[:0]
	for _, s := range r.signals {
		if s.InviteID == inviteID && s.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, s)
	}
	r.signals = kept
	return nil
}

// fakeLocker serializes critical sections with a single in-process mutex,
// which is strictly stronger than the per-key advisory lock it stands in for.
type fakeLocker struct {
	mu sync.Mutex
}

func (l *fakeLocker) WithLock(key string, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

type recordedEvent struct {
	eventType string
	message   string
	payload   map[string]interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	emails []string
}

func (n *fakeNotifier) NotifyAdmins(eventType, message string, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{eventType: eventType, message: message, payload: payload})
}

func (n *fakeNotifier) SendInviteEmail(toEmail, applicantName, testTitle, inviteToken string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, toEmail)
}
