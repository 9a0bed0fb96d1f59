package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prehireio/prehire/internal/apperror"
	"github.com/prehireio/prehire/internal/dto"
	"github.com/prehireio/prehire/internal/service"
)

type ResultsController struct {
	resultsService service.ResultsService
}

func NewResultsController(resultsService service.ResultsService) *ResultsController {
	return &ResultsController{resultsService: resultsService}
}

// GetResults godoc
// @Summary (Admin) List all submissions
// @Tags Admin - Results
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /results [get]
func (c *ResultsController) GetResults(ctx *gin.Context) {
	resp, err := c.resultsService.GetResults()
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetResultDetail godoc
// @Summary (Admin) Get one submission with per-answer review detail
// @Tags Admin - Results
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /results/{submission_id} [get]
func (c *ResultsController) GetResultDetail(ctx *gin.Context) {
	submissionID, err := uuid.Parse(ctx.Param("submission_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid submission ID format"})
		return
	}

	resp, err := c.resultsService.GetResultDetail(submissionID)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetScoringQueue godoc
// @Summary (Admin) List submissions waiting on manual review
// @Tags Admin - Scoring
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /scoring/queue [get]
func (c *ResultsController) GetScoringQueue(ctx *gin.Context) {
	resp, err := c.resultsService.GetScoringQueue()
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
