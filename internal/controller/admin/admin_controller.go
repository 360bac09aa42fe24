package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/controller"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/service"
)

type AdminController struct {
	certificationService service.CertificationService
	examAdminService     service.ExamAdminService
	examService          service.ExamService
	checkoutService      service.CheckoutService
	subscriptionService  service.SubscriptionService
}

func NewAdminController(
	cs service.CertificationService,
	eas service.ExamAdminService,
	es service.ExamService,
	chs service.CheckoutService,
	ss service.SubscriptionService,
) *AdminController {
	return &AdminController{
		certificationService: cs,
		examAdminService:     eas,
		examService:          es,
		checkoutService:      chs,
		subscriptionService:  ss,
	}
}

// CreateCertification godoc
// @Summary (Admin) Create a certification
// @Tags Admin
// @Accept json
// @Produce json
// @Param certification body dto.CertificationCreateDTO true "Certification"
// @Success 201 {object} dto.CertificationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid slug or body"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Security BearerAuth
// @Router /admin/certifications [post]
func (c *AdminController) CreateCertification(ctx *gin.Context) {
	var req dto.CertificationCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	cert, err := c.certificationService.Create(&req)
	if err != nil {
		log.Warn().Err(err).Str("slug", req.Slug).Msg("CreateCertification: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, cert)
}

// UpdateCertification godoc
// @Summary (Admin) Update a certification
// @Description Slug is immutable; only descriptive fields change.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Certification ID"
// @Param certification body dto.CertificationUpdateDTO true "Fields to update"
// @Success 200 {object} dto.CertificationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/certifications/{id} [put]
func (c *AdminController) UpdateCertification(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CertificationUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	cert, err := c.certificationService.Update(id, &req)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cert)
}

// DeleteCertification godoc
// @Summary (Admin) Delete a certification
// @Tags Admin
// @Produce json
// @Param id path int true "Certification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/certifications/{id} [delete]
func (c *AdminController) DeleteCertification(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.certificationService.Delete(id); err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateExamVersion godoc
// @Summary (Admin) Create a new exam version for a certification
// @Description The version number is assigned server-side; the new version becomes current immediately.
// @Tags Admin
// @Accept json
// @Produce json
// @Param exam body dto.ExamCreateDTO true "Exam settings"
// @Success 201 {object} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/exams [post]
func (c *AdminController) CreateExamVersion(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examAdminService.CreateVersion(&req)
	if err != nil {
		log.Warn().Err(err).Uint("certificationID", req.CertificationID).Msg("CreateExamVersion: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// ListExamVersions godoc
// @Summary (Admin) List all exam versions for a certification
// @Tags Admin
// @Produce json
// @Param id path int true "Certification ID"
// @Success 200 {array} dto.ExamResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/certifications/{id}/exams [get]
func (c *AdminController) ListExamVersions(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	exams, err := c.examAdminService.ListByCertification(id)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list exams"})
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExam godoc
// @Summary (Admin) Get an exam with its questions, correct answers included
// @Tags Admin
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/exams/{id} [get]
func (c *AdminController) GetExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	exam, questions, err := c.examAdminService.GetWithQuestions(id)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"exam": exam, "questions": questions})
}

// GenerateExam godoc
// @Summary (Admin) Generate AI questions for a certification's current exam
// @Description Idempotent; exams that already have questions are returned unchanged.
// @Tags Admin
// @Produce json
// @Param id path int true "Certification ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/certifications/{id}/generate [post]
func (c *AdminController) GenerateExam(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	questions, err := c.examService.GenerateExam(ctx.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Uint("certificationID", id).Msg("GenerateExam: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to an exam
// @Tags Admin
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 201 {object} dto.AdminQuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions [post]
func (c *AdminController) AddQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.examAdminService.AddQuestion(&req)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Fields to update"
// @Success 200 {object} dto.AdminQuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.examAdminService.UpdateQuestion(id, &req)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.examAdminService.DeleteQuestion(id); err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListAllPayments godoc
// @Summary (Admin) List all payments
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.PaymentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/payments [get]
func (c *AdminController) ListAllPayments(ctx *gin.Context) {
	payments, err := c.checkoutService.ListAllPayments()
	if err != nil {
		log.Error().Err(err).Msg("ListAllPayments: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list payments"})
		return
	}
	ctx.JSON(http.StatusOK, payments)
}

// ListSubscriptions godoc
// @Summary (Admin) List all subscriptions
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.SubscriptionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/subscriptions [get]
func (c *AdminController) ListSubscriptions(ctx *gin.Context) {
	subs, err := c.subscriptionService.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("ListSubscriptions: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list subscriptions"})
		return
	}
	ctx.JSON(http.StatusOK, subs)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
