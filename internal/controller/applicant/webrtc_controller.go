package applicant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/service"
	"github.com/rs/zerolog/log"
)

// WebRTCController is the HTTP mailbox both peers poll to exchange signaling
// messages. Payloads pass through opaque; media never touches the server.
type WebRTCController struct {
	signalingService service.SignalingService
}

func NewWebRTCController(signalingService service.SignalingService) *WebRTCController {
	return &WebRTCController{signalingService: signalingService}
}

func parseInviteID(ctx *gin.Context) (uuid.UUID, bool) {
	inviteID, err := uuid.Parse(ctx.Param("invite_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid invite ID format"})
		return uuid.Nil, false
	}
	return inviteID, true
}

func (c *WebRTCController) bindSignal(ctx *gin.Context) (dto.SignalRequestDTO, bool) {
	var req dto.SignalRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind signal payload")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return req, false
	}
	return req, true
}

// PostOffer godoc
// @Summary Store a WebRTC offer
// @Description Stores the monitor's SDP offer and marks the session as waiting for the applicant's answer.
// @Tags WebRTC
// @Accept json
// @Produce json
// @Param signal body dto.SignalRequestDTO true "Offer payload"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webrtc/offer [post]
func (c *WebRTCController) PostOffer(ctx *gin.Context) {
	req, ok := c.bindSignal(ctx)
	if !ok {
		return
	}
	if err := c.signalingService.StoreOffer(req); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Offer stored"})
}

// PostAnswer godoc
// @Summary Store a WebRTC answer
// @Description Stores the applicant's SDP answer and marks the session connected.
// @Tags WebRTC
// @Accept json
// @Produce json
// @Param signal body dto.SignalRequestDTO true "Answer payload"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webrtc/answer [post]
func (c *WebRTCController) PostAnswer(ctx *gin.Context) {
	req, ok := c.bindSignal(ctx)
	if !ok {
		return
	}
	if err := c.signalingService.StoreAnswer(req); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Answer stored"})
}

// PostICECandidate godoc
// @Summary Store an ICE candidate
// @Tags WebRTC
// @Accept json
// @Produce json
// @Param signal body dto.SignalRequestDTO true "ICE candidate payload"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webrtc/ice-candidate [post]
func (c *WebRTCController) PostICECandidate(ctx *gin.Context) {
	req, ok := c.bindSignal(ctx)
	if !ok {
		return
	}
	if err := c.signalingService.StoreICECandidate(req); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "ICE candidate stored"})
}

// GetSignals godoc
// @Summary Poll the signaling mailbox for an invite
// @Description Returns all stored signals for the invite in creation order, plus the current session status.
// @Tags WebRTC
// @Produce json
// @Param invite_id path string true "Invite ID"
// @Success 200 {object} dto.SignalsResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /webrtc/signals/{invite_id} [get]
func (c *WebRTCController) GetSignals(ctx *gin.Context) {
	inviteID, ok := parseInviteID(ctx)
	if !ok {
		return
	}
	resp, err := c.signalingService.GetSignals(inviteID)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartSession godoc
// @Summary Start a monitoring session
// @Description Opens a signaling session for an invite that is currently in progress.
// @Tags WebRTC
// @Produce json
// @Param invite_id path string true "Invite ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "No active test session for this invite"
// @Router /webrtc/start-session/{invite_id} [post]
func (c *WebRTCController) StartSession(ctx *gin.Context) {
	inviteID, ok := parseInviteID(ctx)
	if !ok {
		return
	}
	if err := c.signalingService.StartSession(inviteID); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Monitoring session started"})
}

// EndSession godoc
// @Summary End a monitoring session
// @Description Marks the session ended and prunes signals older than the retention period.
// @Tags WebRTC
// @Produce json
// @Param invite_id path string true "Invite ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webrtc/end-session/{invite_id} [post]
func (c *WebRTCController) EndSession(ctx *gin.Context) {
	inviteID, ok := parseInviteID(ctx)
	if !ok {
		return
	}
	if err := c.signalingService.EndSession(inviteID); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Monitoring session ended"})
}
