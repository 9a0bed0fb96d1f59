package admin

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

type ScoringController struct {
	scoringService service.ScoringService
}

func NewScoringController(scoringService service.ScoringService) *ScoringController {
	return &ScoringController{scoringService: scoringService}
}

// ScoreAnswer godoc
// @Summary (Admin) Score one manually reviewed answer
// @Description Records the review for a coding or essay answer. When the last attempted manual answer gets reviewed, the submission's blended final score is computed and its status becomes fully_reviewed.
// @Tags Admin - Scoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param answer_id path string true "Answer ID"
// @Param review body dto.ScoreAnswerRequestDTO true "Review data"
// @Success 200 {object} dto.ScoreAnswerResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Answer belongs to an auto-graded question"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /scoring/answers/{answer_id} [post]
func (c *ScoringController) ScoreAnswer(ctx *gin.Context) {
	answerID, err := uuid.Parse(ctx.Param("answer_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid answer ID format"})
		return
	}

	var req dto.ScoreAnswerRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("ScoreAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.scoringService.ScoreAnswer(middleware.UserID(ctx), answerID, req)
	if err != nil {
		log.Error().Err(err).Str("answer", answerID.String()).Msg("ScoreAnswer: Service error")
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
