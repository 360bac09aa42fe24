package dto

import "time"

// CreateAttemptRequest creates a pending attempt for a free certification.
type CreateAttemptRequest struct {
	CertificationID uint `json:"certification_id" binding:"required"`
}

// SubmitAnswersRequest carries all of a candidate's answers for one attempt.
// Keys are question ids; values are the selected option index (mcq) or the
// written answer (free/coding).
type SubmitAnswersRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// CheckoutRequest starts the purchase flow for a certification. Free
// certifications skip the gateway and return an attempt id directly.
type CheckoutRequest struct {
	CertificationID uint   `json:"certification_id" binding:"required"`
	SuccessURL      string `json:"success_url" binding:"required,url"`
	CancelURL       string `json:"cancel_url" binding:"required,url"`
}

type VerifyCheckoutRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// SubscriptionSyncRequest mirrors one billing-provider subscription event
// into local state.
type SubscriptionSyncRequest struct {
	UserID                 string     `json:"user_id" binding:"required"`
	ExternalSubscriptionID string     `json:"external_subscription_id" binding:"required"`
	ExternalCustomerID     string     `json:"external_customer_id"`
	Status                 string     `json:"status" binding:"required"`
	PlanID                 string     `json:"plan_id"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end"`
}

// PaymentNotification is the gateway webhook payload. SignatureKey must match
// sha512(order_id + status_code + gross_amount + server key).
type PaymentNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}
