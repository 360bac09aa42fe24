package service

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/skillcert/skillcert/config"
	"github.com/skillcert/skillcert/internal/model"
)

// CheckoutSession is what the client needs to complete payment externally.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// PaymentGateway wraps the external payment provider. Statuses are
// normalized to the Payment model's vocabulary.
type PaymentGateway interface {
	// CreateSession opens a hosted payment page. finishURL is where the
	// gateway redirects the buyer after the payment page completes.
	CreateSession(orderID string, amountCents int64, itemName, customerName, finishURL string) (*CheckoutSession, error)
	Status(orderID string) (string, error)
	// VerifySignature checks a webhook notification's signature key.
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

type midtransGateway struct {
	snapClient snap.Client
	coreClient coreapi.Client
	serverKey  string
}

func NewMidtransGateway(cfg *config.Config) PaymentGateway {
	env := midtrans.Sandbox
	if cfg.Midtrans.Production {
		env = midtrans.Production
	}
	g := &midtransGateway{serverKey: cfg.Midtrans.ServerKey}
	g.snapClient.New(cfg.Midtrans.ServerKey, env)
	g.coreClient.New(cfg.Midtrans.ServerKey, env)
	return g
}

func (g *midtransGateway) CreateSession(orderID string, amountCents int64, itemName, customerName, finishURL string) (*CheckoutSession, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amountCents,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customerName,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishURL,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    amountCents,
				Qty:      1,
				Name:     itemName,
				Category: "certification",
			},
		},
	}
	resp, err := g.snapClient.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("gateway session creation failed: %w", err)
	}
	return &CheckoutSession{SessionID: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (g *midtransGateway) Status(orderID string) (string, error) {
	resp, err := g.coreClient.CheckTransaction(orderID)
	if err != nil {
		return "", fmt.Errorf("gateway status check failed: %w", err)
	}
	return normalizeGatewayStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

func (g *midtransGateway) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}

func normalizeGatewayStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return model.PaymentStatusPending
		}
		return model.PaymentStatusPaid
	case "settlement":
		return model.PaymentStatusPaid
	case "pending":
		return model.PaymentStatusPending
	case "expire":
		return model.PaymentStatusExpired
	default:
		return model.PaymentStatusFailed
	}
}
