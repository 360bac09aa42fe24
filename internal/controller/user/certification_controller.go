package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/controller"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/service"
)

type CertificationController struct {
	certificationService service.CertificationService
}

func NewCertificationController(cs service.CertificationService) *CertificationController {
	return &CertificationController{certificationService: cs}
}

// ListCertifications godoc
// @Summary List all certifications
// @Description Browse the certification catalog. Free certifications have price_cents = 0.
// @Tags Certifications
// @Produce json
// @Success 200 {array} dto.CertificationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /certifications [get]
func (c *CertificationController) ListCertifications(ctx *gin.Context) {
	certs, err := c.certificationService.List()
	if err != nil {
		log.Error().Err(err).Msg("ListCertifications: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list certifications"})
		return
	}
	ctx.JSON(http.StatusOK, certs)
}

// GetCertification godoc
// @Summary Get one certification by slug
// @Tags Certifications
// @Produce json
// @Param slug path string true "Certification slug"
// @Success 200 {object} dto.CertificationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /certifications/{slug} [get]
func (c *CertificationController) GetCertification(ctx *gin.Context) {
	slug := ctx.Param("slug")
	cert, err := c.certificationService.GetBySlug(slug)
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("GetCertification: lookup failed")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cert)
}
