package service

import (
	"errors"
	"testing"

	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

type fakeSubscriptionRepo struct {
	nextID uint
	subs   map[string]*model.Subscription // keyed by external subscription id
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (f *fakeSubscriptionRepo) Upsert(sub *model.Subscription) error {
	if existing, ok := f.subs[sub.ExternalSubscriptionID]; ok {
		sub.ID = existing.ID
	} else {
		f.nextID++
		sub.ID = f.nextID
	}
	f.subs[sub.ExternalSubscriptionID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) DeleteByExternalID(externalSubscriptionID string) error {
	delete(f.subs, externalSubscriptionID)
	return nil
}

func (f *fakeSubscriptionRepo) FindActiveByUser(userID string) (*model.Subscription, error) {
	for _, sub := range f.subs {
		if sub.UserID == userID && sub.Status == "active" {
			return sub, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubscriptionRepo) FindAll() ([]model.Subscription, error) {
	var out []model.Subscription
	for _, sub := range f.subs {
		out = append(out, *sub)
	}
	return out, nil
}

func TestSubscriptionSyncIsIdempotent(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	first, err := svc.Sync(&dto.SubscriptionSyncRequest{
		UserID: "user-1", ExternalSubscriptionID: "sub_123", Status: "active", PlanID: "pro",
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if first.Status != "active" || first.PlanID != "pro" {
		t.Errorf("first sync = %+v", first)
	}

	second, err := svc.Sync(&dto.SubscriptionSyncRequest{
		UserID: "user-1", ExternalSubscriptionID: "sub_123", Status: "past_due", PlanID: "pro",
	})
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if second.Status != "past_due" {
		t.Errorf("Status = %q, want past_due", second.Status)
	}
	if len(repo.subs) != 1 {
		t.Errorf("got %d rows, want 1", len(repo.subs))
	}
}

func TestGetActiveSubscription(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	svc.Sync(&dto.SubscriptionSyncRequest{UserID: "user-1", ExternalSubscriptionID: "sub_1", Status: "canceled", PlanID: "pro"})
	if _, err := svc.GetActive("user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("canceled only: err = %v, want ErrNotFound", err)
	}

	svc.Sync(&dto.SubscriptionSyncRequest{UserID: "user-1", ExternalSubscriptionID: "sub_2", Status: "active", PlanID: "pro"})
	got, err := svc.GetActive("user-1")
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if got.UserID != "user-1" || got.Status != "active" {
		t.Errorf("subscription = %+v", got)
	}
}

func TestRemoveSubscription(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	svc := NewSubscriptionService(repo)

	svc.Sync(&dto.SubscriptionSyncRequest{UserID: "user-1", ExternalSubscriptionID: "sub_1", Status: "active", PlanID: "pro"})
	if err := svc.Remove("sub_1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := svc.GetActive("user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after remove: err = %v, want ErrNotFound", err)
	}
}
