package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

// SubscriptionService keeps a local mirror of billing-provider subscription
// state. Sync is idempotent on the external subscription id.
type SubscriptionService interface {
	Sync(req *dto.SubscriptionSyncRequest) (*dto.SubscriptionResponse, error)
	Remove(externalSubscriptionID string) error
	GetActive(userID string) (*dto.SubscriptionResponse, error)
	ListAll() ([]dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo}
}

func (s *subscriptionService) Sync(req *dto.SubscriptionSyncRequest) (*dto.SubscriptionResponse, error) {
	sub := &model.Subscription{
		UserID:                 req.UserID,
		ExternalSubscriptionID: req.ExternalSubscriptionID,
		ExternalCustomerID:     req.ExternalCustomerID,
		Status:                 req.Status,
		PlanID:                 req.PlanID,
		CurrentPeriodEnd:       req.CurrentPeriodEnd,
	}
	if err := s.subscriptionRepo.Upsert(sub); err != nil {
		return nil, fmt.Errorf("failed to sync subscription %s: %w", req.ExternalSubscriptionID, err)
	}
	log.Info().Str("externalSubscriptionID", req.ExternalSubscriptionID).Str("status", req.Status).Msg("Synced subscription")
	return subscriptionResponse(sub), nil
}

func (s *subscriptionService) Remove(externalSubscriptionID string) error {
	if err := s.subscriptionRepo.DeleteByExternalID(externalSubscriptionID); err != nil {
		return fmt.Errorf("failed to remove subscription %s: %w", externalSubscriptionID, err)
	}
	return nil
}

func (s *subscriptionService) GetActive(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active subscription for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up subscription for user %s: %w", userID, err)
	}
	return subscriptionResponse(sub), nil
}

func (s *subscriptionService) ListAll() ([]dto.SubscriptionResponse, error) {
	subs, err := s.subscriptionRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	out := make([]dto.SubscriptionResponse, len(subs))
	for i := range subs {
		copier.Copy(&out[i], &subs[i])
	}
	return out, nil
}

func subscriptionResponse(sub *model.Subscription) *dto.SubscriptionResponse {
	var resp dto.SubscriptionResponse
	copier.Copy(&resp, sub)
	return &resp
}
