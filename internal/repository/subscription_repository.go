package repository

import (
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	Upsert(sub *model.Subscription) error
	DeleteByExternalID(externalSubscriptionID string) error
	FindActiveByUser(userID string) (*model.Subscription, error)
	FindAll() ([]model.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(sub *model.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "plan_id", "current_period_end", "external_customer_id", "updated_at",
		}),
	}).Create(sub).Error
}

func (r *subscriptionRepository) DeleteByExternalID(externalSubscriptionID string) error {
	return r.db.Where("external_subscription_id = ?", externalSubscriptionID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) FindActiveByUser(userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, "active").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindAll() ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := r.db.Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
