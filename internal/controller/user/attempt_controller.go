package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/controller"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/middleware"
	"github.com/skillcert/skillcert/internal/service"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(as service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: as}
}

// CreateAttempt godoc
// @Summary Create an attempt for a free certification
// @Description Paid certifications must go through checkout instead; this endpoint returns 402 for them.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.CreateAttemptRequest true "Certification to attempt"
// @Success 201 {object} dto.AttemptResponse
// @Failure 402 {object} dto.ErrorResponse "Certification is not free"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /attempts [post]
func (c *AttemptController) CreateAttempt(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)

	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptService.CreateAttempt(req.CertificationID, claims.UserID, true)
	if err != nil {
		log.Warn().Err(err).Uint("certificationID", req.CertificationID).Msg("CreateAttempt: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// StartAttempt godoc
// @Summary Start a pending attempt
// @Description Starts the exam clock and returns the questions. Correct answers are never included.
// @Tags Attempts
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.StartAttemptResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already started or finished"
// @Security BearerAuth
// @Router /attempts/{id}/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(ctx)

	resp, err := c.attemptService.StartAttempt(ctx.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("StartAttempt: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswers godoc
// @Summary Submit all answers for a started attempt
// @Description Grades the attempt and returns the result. A second submit for the same attempt is rejected.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param answers body dto.SubmitAnswersRequest true "Answers keyed by question id"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already submitted or deadline passed"
// @Security BearerAuth
// @Router /attempts/{id}/submit [post]
func (c *AttemptController) SubmitAnswers(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(ctx)

	var req dto.SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attemptService.SubmitAnswers(ctx.Request.Context(), attemptID, claims.UserID, req.Answers)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("SubmitAnswers: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetResult godoc
// @Summary Get the result of a graded attempt
// @Tags Attempts
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt not graded yet"
// @Security BearerAuth
// @Router /attempts/{id}/result [get]
func (c *AttemptController) GetResult(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(ctx)

	result, err := c.attemptService.GetResult(attemptID, claims.UserID)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListResults godoc
// @Summary List the caller's graded results
// @Tags Attempts
// @Produce json
// @Param exam_id query int false "Filter by exam"
// @Success 200 {array} dto.ResultResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /results [get]
func (c *AttemptController) ListResults(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)

	var examID *uint
	if examIDStr := ctx.Query("exam_id"); examIDStr != "" {
		val, err := strconv.ParseUint(examIDStr, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam_id format"})
			return
		}
		id := uint(val)
		examID = &id
	}

	results, err := c.attemptService.ListResults(claims.UserID, examID)
	if err != nil {
		log.Error().Err(err).Str("userID", claims.UserID).Msg("ListResults: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list results"})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
