package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/controller"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/middleware"
	"github.com/skillcert/skillcert/internal/service"
)

type CertificateController struct {
	certificateService  service.CertificateService
	subscriptionService service.SubscriptionService
}

func NewCertificateController(cs service.CertificateService, ss service.SubscriptionService) *CertificateController {
	return &CertificateController{certificateService: cs, subscriptionService: ss}
}

// IssueCertificate godoc
// @Summary Issue (or fetch) the certificate for a passed attempt
// @Description Idempotent; repeat calls return the same document URL.
// @Tags Certificates
// @Produce json
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.CertificateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt was not passed"
// @Security BearerAuth
// @Router /attempts/{id}/certificate [post]
func (c *CertificateController) IssueCertificate(ctx *gin.Context) {
	attemptID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(ctx)

	cert, err := c.certificateService.EnsureCertificate(ctx.Request.Context(), attemptID, claims.UserID, claims.Name)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("IssueCertificate: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cert)
}

// VerifyCertificate godoc
// @Summary Verify a certificate by its hash
// @Description Public endpoint; no authentication. Unknown hashes return verified=false, not 404.
// @Tags Certificates
// @Produce json
// @Param hash path string true "Certificate SHA-256 hash"
// @Success 200 {object} dto.CertificateVerifyResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /certificates/verify/{hash} [get]
func (c *CertificateController) VerifyCertificate(ctx *gin.Context) {
	hash := ctx.Param("hash")
	resp, err := c.certificateService.Verify(hash)
	if err != nil {
		log.Error().Err(err).Msg("VerifyCertificate: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Verification failed"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetSubscription godoc
// @Summary Get the caller's active subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscription [get]
func (c *CertificateController) GetSubscription(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)
	sub, err := c.subscriptionService.GetActive(claims.UserID)
	if err != nil {
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sub)
}
