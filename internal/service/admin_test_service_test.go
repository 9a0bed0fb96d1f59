package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/model"
)

func newAdminTestHarness(t *testing.T) (AdminTestService, *fakeTestRepo, *fakeInviteRepo) {
	t.Helper()
	testRepo := newFakeTestRepo()
	inviteRepo := newFakeInviteRepo()
	return NewAdminTestService(testRepo, inviteRepo), testRepo, inviteRepo
}

func validCreateReq() dto.TestCreateDTO {
	return dto.TestCreateDTO{
		Title:           "Backend Screening",
		DurationMinutes: 60,
		Questions: []dto.QuestionCreateDTO{
			{
				Type:          model.QuestionTypeMultipleChoice,
				Prompt:        "What does TCP stand for?",
				Options:       []string{"Transmission Control Protocol", "Total Control Program"},
				CorrectAnswer: strPtr("Transmission Control Protocol"),
				Points:        10,
			},
			{
				Type:   model.QuestionTypeEssay,
				Prompt: "Describe a system you have designed.",
				Points: 10,
			},
		},
	}
}

func TestCreateTestAssignsQuestionOrder(t *testing.T) {
	svc, _, _ := newAdminTestHarness(t)
	resp, err := svc.CreateTest(uuid.New(), validCreateReq())
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(resp.Questions))
	}
	for i, q := range resp.Questions {
		if q.QuestionOrder != i {
			t.Errorf("question %d order = %d, want %d", i, q.QuestionOrder, i)
		}
	}
	if !resp.IsActive {
		t.Error("new test should be active")
	}
}

func TestCreateTestMultipleChoiceValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.TestCreateDTO)
	}{
		{"too few options", func(req *dto.TestCreateDTO) {
			req.Questions[0].Options = []string{"only one"}
		}},
		{"missing correct answer", func(req *dto.TestCreateDTO) {
			req.Questions[0].CorrectAnswer = nil
		}},
		{"empty correct answer", func(req *dto.TestCreateDTO) {
			req.Questions[0].CorrectAnswer = strPtr("")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newAdminTestHarness(t)
			req := validCreateReq()
			tc.mutate(&req)
			if _, err := svc.CreateTest(uuid.New(), req); !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestGetTestOwnership(t *testing.T) {
	svc, _, _ := newAdminTestHarness(t)
	owner := uuid.New()
	created, err := svc.CreateTest(owner, validCreateReq())
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}

	if _, err := svc.GetTest(owner, created.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetTest(uuid.New(), created.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.GetTest(owner, uuid.New()); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTestBlockedWhileInProgress(t *testing.T) {
	svc, _, inviteRepo := newAdminTestHarness(t)
	owner := uuid.New()
	created, _ := svc.CreateTest(owner, validCreateReq())

	inviteRepo.add(&model.Invite{
		TestID:         created.ID,
		ApplicantEmail: "jane@example.com",
		Status:         model.InviteStatusInProgress,
	})

	req := dto.TestUpdateDTO{Title: "New Title", DurationMinutes: 90}
	if _, err := svc.UpdateTest(owner, created.ID, req); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden while an applicant is taking the test, got %v", err)
	}
}

func TestUpdateTestChangesMetadata(t *testing.T) {
	svc, _, inviteRepo := newAdminTestHarness(t)
	owner := uuid.New()
	created, _ := svc.CreateTest(owner, validCreateReq())

	// Completed invites do not block updates.
	inviteRepo.add(&model.Invite{
		TestID:         created.ID,
		ApplicantEmail: "jane@example.com",
		Status:         model.InviteStatusCompleted,
	})

	resp, err := svc.UpdateTest(owner, created.ID, dto.TestUpdateDTO{Title: "New Title", DurationMinutes: 90})
	if err != nil {
		t.Fatalf("UpdateTest: %v", err)
	}
	if resp.Title != "New Title" || resp.DurationMinutes != 90 {
		t.Errorf("metadata not updated: %+v", resp)
	}
}

func TestDeleteTestBlockedByOpenInvites(t *testing.T) {
	svc, _, inviteRepo := newAdminTestHarness(t)
	owner := uuid.New()
	created, _ := svc.CreateTest(owner, validCreateReq())

	inviteRepo.add(&model.Invite{
		TestID:         created.ID,
		ApplicantEmail: "jane@example.com",
		Status:         model.InviteStatusSent,
	})

	if err := svc.DeleteTest(owner, created.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected ErrForbidden with open invites, got %v", err)
	}
}

func TestDeleteTestSoftDeletes(t *testing.T) {
	svc, testRepo, inviteRepo := newAdminTestHarness(t)
	owner := uuid.New()
	created, _ := svc.CreateTest(owner, validCreateReq())

	// A completed invite is no obstacle.
	inviteRepo.add(&model.Invite{
		TestID:         created.ID,
		ApplicantEmail: "jane@example.com",
		Status:         model.InviteStatusCompleted,
	})

	if err := svc.DeleteTest(owner, created.ID); err != nil {
		t.Fatalf("DeleteTest: %v", err)
	}
	if _, err := testRepo.FindByID(created.ID); err == nil {
		t.Error("deactivated test should no longer be readable")
	}
}
