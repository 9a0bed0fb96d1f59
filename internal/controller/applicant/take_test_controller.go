package applicant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/middleware"
	"github.com/prehireio/prehire/internal/service"
	"github.com/rs/zerolog/log"
)

// TakeTestController serves the tokenized applicant flow. The invite token in
// the URL is the credential; no login is required on these routes.
type TakeTestController struct {
	lifecycleService service.LifecycleService
	inviteService    service.InviteService
}

func NewTakeTestController(lifecycleService service.LifecycleService, inviteService service.InviteService) *TakeTestController {
	return &TakeTestController{lifecycleService: lifecycleService, inviteService: inviteService}
}

func parseToken(ctx *gin.Context) (uuid.UUID, bool) {
	token, err := uuid.Parse(ctx.Param("token"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Invalid invite token"})
		return uuid.Nil, false
	}
	return token, true
}

// GetInviteByToken godoc
// @Summary View an invitation by token
// @Description Public invite page: the invitation and its test without correct answers. Does not enforce the scheduling window.
// @Tags Take Test
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} dto.TakeTestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Invalid invite token"
// @Router /invites/token/{token} [get]
func (c *TakeTestController) GetInviteByToken(ctx *gin.Context) {
	token, ok := parseToken(ctx)
	if !ok {
		return
	}

	resp, err := c.lifecycleService.ReadInvite(token)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ScheduleTest godoc
// @Summary Schedule or reschedule a test
// @Description Sets the scheduled date for an invitation in status sent or scheduled. The ±30 minute window is enforced later, when the applicant opens the test.
// @Tags Take Test
// @Accept json
// @Produce json
// @Param token path string true "Invite token"
// @Param schedule body dto.ScheduleRequestDTO true "Scheduled date"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Invite not found or not schedulable"
// @Router /invites/token/{token}/schedule [post]
func (c *TakeTestController) ScheduleTest(ctx *gin.Context) {
	token, ok := parseToken(ctx)
	if !ok {
		return
	}

	var req dto.ScheduleRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := c.lifecycleService.Schedule(token, req.ScheduledDate); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Test scheduled successfully"})
}

// GetTestForTaking godoc
// @Summary Open a test for taking
// @Description Returns the test when the invite is open and, for a scheduled test, within ±30 minutes of the scheduled time. For an in-progress session it includes the remaining time.
// @Tags Take Test
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} dto.TakeTestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Outside the scheduling window"
// @Failure 404 {object} dto.ErrorResponse "Invalid or expired test invite"
// @Router /take-test/{token} [get]
func (c *TakeTestController) GetTestForTaking(ctx *gin.Context) {
	token, ok := parseToken(ctx)
	if !ok {
		return
	}

	resp, err := c.lifecycleService.ReadForTaking(token)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartTest godoc
// @Summary Start a test session
// @Description Moves the invitation to in_progress. Starting an already running session is idempotent. An applicant with another test in progress must finish their oldest pending test first.
// @Tags Take Test
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} dto.StartTestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Invite not startable"
// @Failure 409 {object} dto.ErrorResponse "Another test must be completed first"
// @Router /start-test/{token} [post]
func (c *TakeTestController) StartTest(ctx *gin.Context) {
	token, ok := parseToken(ctx)
	if !ok {
		return
	}

	resp, err := c.lifecycleService.Start(token)
	if err != nil {
		log.Warn().Err(err).Str("token", token.String()).Msg("StartTest rejected")
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitTest godoc
// @Summary Submit test answers
// @Description Auto-grades the multiple-choice answers, stores the submission and completes the invitation atomically. A second submit for the same session fails.
// @Tags Take Test
// @Accept json
// @Produce json
// @Param token path string true "Invite token"
// @Param answers body dto.SubmitTestRequestDTO true "Submitted answers"
// @Success 200 {object} dto.SubmitTestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "No active test session for this token"
// @Router /submit-test/{token} [post]
func (c *TakeTestController) SubmitTest(ctx *gin.Context) {
	token, ok := parseToken(ctx)
	if !ok {
		return
	}

	var req dto.SubmitTestRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.lifecycleService.Submit(token, req)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMyInvites godoc
// @Summary List the authenticated applicant's invitations
// @Tags Take Test
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MyInviteDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /my-invites [get]
func (c *TakeTestController) GetMyInvites(ctx *gin.Context) {
	resp, err := c.inviteService.GetMyInvites(middleware.UserEmail(ctx))
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
