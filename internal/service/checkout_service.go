package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

// CheckoutService runs the purchase flow. Free certifications short-circuit
// to a bypass attempt; paid ones go through the gateway and only produce an
// attempt once the payment settles.
type CheckoutService interface {
	CreateCheckout(userID, userName string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// VerifyCheckout polls the gateway for the order's status. Settled
	// payments get their attempt exactly once; repeat calls return it.
	VerifyCheckout(orderID, userID string) (*dto.VerifyCheckoutResponse, error)
	// HandleNotification applies a signed gateway webhook.
	HandleNotification(n *dto.PaymentNotification) error
	ListPayments(userID string) ([]dto.PaymentResponse, error)
	ListAllPayments() ([]dto.PaymentResponse, error)
}

type checkoutService struct {
	certRepo       repository.CertificationRepository
	paymentRepo    repository.PaymentRepository
	attemptRepo    repository.AttemptRepository
	examService    ExamService
	attemptService AttemptService
	gateway        PaymentGateway
}

func NewCheckoutService(
	certRepo repository.CertificationRepository,
	paymentRepo repository.PaymentRepository,
	attemptRepo repository.AttemptRepository,
	examService ExamService,
	attemptService AttemptService,
	gateway PaymentGateway,
) CheckoutService {
	return &checkoutService{
		certRepo:       certRepo,
		paymentRepo:    paymentRepo,
		attemptRepo:    attemptRepo,
		examService:    examService,
		attemptService: attemptService,
		gateway:        gateway,
	}
}

func (s *checkoutService) CreateCheckout(userID, userName string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	cert, err := s.certRepo.FindByID(req.CertificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", req.CertificationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", req.CertificationID, err)
	}

	if cert.Free() {
		attempt, err := s.attemptService.CreateAttempt(cert.ID, userID, true)
		if err != nil {
			return nil, err
		}
		return &dto.CheckoutResponse{Free: true, AttemptID: attempt.ID}, nil
	}

	orderID := uuid.NewString()
	payment := &model.Payment{
		OrderID:         orderID,
		UserID:          userID,
		CertificationID: cert.ID,
		AmountCents:     cert.PriceCents,
		Status:          model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	session, err := s.gateway.CreateSession(orderID, cert.PriceCents, cert.Title, userName, req.SuccessURL)
	if err != nil {
		payment.Status = model.PaymentStatusFailed
		if uerr := s.paymentRepo.Update(payment); uerr != nil {
			log.Error().Err(uerr).Str("orderID", orderID).Msg("Failed to mark payment failed")
		}
		return nil, err
	}
	log.Info().Str("orderID", orderID).Uint("certificationID", cert.ID).Msg("Created checkout session")
	return &dto.CheckoutResponse{
		OrderID:     orderID,
		SessionID:   session.SessionID,
		CheckoutURL: session.RedirectURL,
	}, nil
}

func (s *checkoutService) VerifyCheckout(orderID, userID string) (*dto.VerifyCheckoutResponse, error) {
	payment, err := s.findPayment(orderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}

	if payment.Status == model.PaymentStatusPaid && payment.AttemptID != nil {
		return &dto.VerifyCheckoutResponse{Verified: true, AttemptID: *payment.AttemptID}, nil
	}

	status, err := s.gateway.Status(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.settle(payment, status); err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentStatusPaid && payment.AttemptID != nil {
		return &dto.VerifyCheckoutResponse{Verified: true, AttemptID: *payment.AttemptID}, nil
	}
	return &dto.VerifyCheckoutResponse{Verified: false}, nil
}

func (s *checkoutService) HandleNotification(n *dto.PaymentNotification) error {
	if !s.gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return fmt.Errorf("invalid notification signature for order %s: %w", n.OrderID, ErrValidation)
	}
	payment, err := s.findPayment(n.OrderID)
	if err != nil {
		return err
	}
	return s.settle(payment, normalizeGatewayStatus(n.TransactionStatus, n.FraudStatus))
}

func (s *checkoutService) ListPayments(userID string) ([]dto.PaymentResponse, error) {
	payments, err := s.paymentRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for user %s: %w", userID, err)
	}
	out := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		copier.Copy(&out[i], &payments[i])
	}
	return out, nil
}

func (s *checkoutService) ListAllPayments() ([]dto.PaymentResponse, error) {
	payments, err := s.paymentRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	out := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		copier.Copy(&out[i], &payments[i])
	}
	return out, nil
}

// settle moves the payment to its new status and, on the pending->paid
// transition, creates the attempt the purchase was for.
func (s *checkoutService) settle(payment *model.Payment, status string) error {
	if payment.Status == model.PaymentStatusPaid {
		// Settled payments never regress on late or replayed notifications.
		return nil
	}
	payment.Status = status
	if status == model.PaymentStatusPaid && payment.AttemptID == nil {
		exam, err := s.examService.GetOrCreateCurrent(payment.CertificationID)
		if err != nil {
			return err
		}
		attempt := &model.Attempt{
			UserID: payment.UserID,
			ExamID: exam.ID,
			Status: model.AttemptStatusPending,
		}
		if err := s.attemptRepo.Create(attempt); err != nil {
			return fmt.Errorf("failed to create attempt for order %s: %w", payment.OrderID, err)
		}
		payment.AttemptID = &attempt.ID
		log.Info().Str("orderID", payment.OrderID).Uint("attemptID", attempt.ID).Msg("Payment settled, attempt created")
	}
	if err := s.paymentRepo.Update(payment); err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.OrderID, err)
	}
	return nil
}

func (s *checkoutService) findPayment(orderID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payment %s: %w", orderID, err)
	}
	return payment, nil
}
