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

type AdminTestController struct {
	adminTestService service.AdminTestService
}

func NewAdminTestController(adminTestService service.AdminTestService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService}
}

// CreateTest godoc
// @Summary (Admin) Create a new test
// @Description Creates a test with its ordered question list. Multiple choice questions carry options and a correct answer; coding and essay questions are reviewed manually after submission.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test body dto.TestCreateDTO true "Test data including questions"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.adminTestService.CreateTest(middleware.UserID(ctx), req)
	if err != nil {
		log.Error().Err(err).Msg("Admin CreateTest: Service error")
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetTests godoc
// @Summary (Admin) List own tests
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [get]
func (c *AdminTestController) GetTests(ctx *gin.Context) {
	resp, err := c.adminTestService.GetTests(middleware.UserID(ctx))
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetTest godoc
// @Summary (Admin) Get one test with questions
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path string true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *AdminTestController) GetTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid test ID format"})
		return
	}

	resp, err := c.adminTestService.GetTest(middleware.UserID(ctx), testID)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateTest godoc
// @Summary (Admin) Update test metadata
// @Description Forbidden while any invite for the test is in progress.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path string true "Test ID"
// @Param test body dto.TestUpdateDTO true "Updated metadata"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Applicants are currently taking this test"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [put]
func (c *AdminTestController) UpdateTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid test ID format"})
		return
	}

	var req dto.TestUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.adminTestService.UpdateTest(middleware.UserID(ctx), testID, req)
	if err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteTest godoc
// @Summary (Admin) Delete a test
// @Description Soft delete. Forbidden while open invitations exist for the test.
// @Tags Admin - Tests
// @Security BearerAuth
// @Param test_id path string true "Test ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Test has active invitations"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [delete]
func (c *AdminTestController) DeleteTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid test ID format"})
		return
	}

	if err := c.adminTestService.DeleteTest(middleware.UserID(ctx), testID); err != nil {
		ctx.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
