package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/controller"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/middleware"
	"github.com/skillcert/skillcert/internal/service"
)

type PaymentController struct {
	checkoutService     service.CheckoutService
	subscriptionService service.SubscriptionService
}

func NewPaymentController(cs service.CheckoutService, ss service.SubscriptionService) *PaymentController {
	return &PaymentController{checkoutService: cs, subscriptionService: ss}
}

// CreateCheckout godoc
// @Summary Start the purchase flow for a certification
// @Description Free certifications return an attempt id directly; paid ones return a gateway session and redirect URL.
// @Tags Payments
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Checkout request"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /checkout [post]
func (c *PaymentController) CreateCheckout(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)

	var req dto.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.checkoutService.CreateCheckout(claims.UserID, claims.Name, &req)
	if err != nil {
		log.Warn().Err(err).Uint("certificationID", req.CertificationID).Msg("CreateCheckout: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// VerifyCheckout godoc
// @Summary Verify a checkout's payment status
// @Description Polls the gateway. Once the payment settles the purchased attempt is created; repeat calls return it.
// @Tags Payments
// @Accept json
// @Produce json
// @Param order body dto.VerifyCheckoutRequest true "Order reference"
// @Success 200 {object} dto.VerifyCheckoutResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /checkout/verify [post]
func (c *PaymentController) VerifyCheckout(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)

	var req dto.VerifyCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.checkoutService.VerifyCheckout(req.OrderID, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("orderID", req.OrderID).Msg("VerifyCheckout: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListPayments godoc
// @Summary List the caller's payments
// @Tags Payments
// @Produce json
// @Success 200 {array} dto.PaymentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /payments [get]
func (c *PaymentController) ListPayments(ctx *gin.Context) {
	claims := middleware.ClaimsFromContext(ctx)
	payments, err := c.checkoutService.ListPayments(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("userID", claims.UserID).Msg("ListPayments: service error")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: "Failed to list payments"})
		return
	}
	ctx.JSON(http.StatusOK, payments)
}

// PaymentWebhook godoc
// @Summary Gateway payment notification webhook
// @Description Signature-checked; bad signatures are rejected. Settled notifications create the purchased attempt.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param notification body dto.PaymentNotification true "Gateway notification"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Router /webhooks/payment [post]
func (c *PaymentController) PaymentWebhook(ctx *gin.Context) {
	var n dto.PaymentNotification
	if err := ctx.ShouldBindJSON(&n); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid notification body", Details: []string{err.Error()}})
		return
	}

	if err := c.checkoutService.HandleNotification(&n); err != nil {
		log.Warn().Err(err).Str("orderID", n.OrderID).Msg("PaymentWebhook: rejected")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubscriptionWebhook godoc
// @Summary Billing-provider subscription event webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param event body dto.SubscriptionSyncRequest true "Subscription state"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /webhooks/subscription [post]
func (c *PaymentController) SubscriptionWebhook(ctx *gin.Context) {
	var req dto.SubscriptionSyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid event body", Details: []string{err.Error()}})
		return
	}

	sub, err := c.subscriptionService.Sync(&req)
	if err != nil {
		log.Error().Err(err).Str("externalSubscriptionID", req.ExternalSubscriptionID).Msg("SubscriptionWebhook: sync failed")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sub)
}

// SubscriptionDeleted godoc
// @Summary Billing-provider subscription deletion webhook
// @Tags Webhooks
// @Produce json
// @Param external_id path string true "External subscription ID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /webhooks/subscription/{external_id} [delete]
func (c *PaymentController) SubscriptionDeleted(ctx *gin.Context) {
	externalID := ctx.Param("external_id")
	if err := c.subscriptionService.Remove(externalID); err != nil {
		log.Error().Err(err).Str("externalSubscriptionID", externalID).Msg("SubscriptionDeleted: remove failed")
		ctx.JSON(controller.StatusFromError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
