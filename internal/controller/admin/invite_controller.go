package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/middleware"
	"github.com/prehireio/prehire/internal/service"
	"github.com/rs/zerolog/log"
)

type InviteController struct {
	inviteService service.InviteService
}

func NewInviteController(inviteService service.InviteService) *InviteController {
	return &InviteController{inviteService: inviteService}
}

// CreateInvite godoc
// @Summary (Admin) Invite an applicant to a test
// @Description Creates an invitation in status "sent" and emails the applicant a tokenized link.
// @Tags Admin - Invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invite body dto.InviteCreateDTO true "Invitation data"
// @Success 201 {object} dto.InviteResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /invites [post]
func (c *InviteController) CreateInvite(ctx *gin.Context) {
	var req dto.InviteCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateInvite: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.inviteService.CreateInvite(middleware.UserID(ctx), req)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetInvites godoc
// @Summary (Admin) List invitations created by the caller
// @Tags Admin - Invites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.InviteResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /invites [get]
func (c *InviteController) GetInvites(ctx *gin.Context) {
	resp, err := c.inviteService.GetInvites(middleware.UserID(ctx))
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
