package service

import (
	"context"
	"fmt"
	"time"

	"github.com/saathi/saathi-go/internal/models"
)

// SubscriptionRepository defines the persistence operations for per-user
// subscription state. Get returns the free-tier default when no record
// exists yet.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, userID string) (models.Subscription, error)
	SetSubscription(ctx context.Context, userID string, sub models.Subscription) error
}

// premiumTerm is the window granted by an upgrade. Expiry is recorded but
// never enforced; premium does not lapse on its own.
const premiumTerm = 30 * 24 * time.Hour

// SubscriptionService mutates subscription state on upgrade.
type SubscriptionService struct {
	subs SubscriptionRepository
	now  func() time.Time
}

// NewSubscriptionService constructs a SubscriptionService. A nil clock
// falls back to time.Now.
func NewSubscriptionService(subs SubscriptionRepository, clock func() time.Time) *SubscriptionService {
	if clock == nil {
		clock = time.Now
	}
	return &SubscriptionService{subs: subs, now: clock}
}

// Get returns the user's current subscription.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (models.Subscription, error) {
	return s.subs.GetSubscription(ctx, userID)
}

// Upgrade unconditionally sets the user to premium with expiry 30 days from
// now and persists the result. Re-upgrading resets the window from the call
// time; terms never stack.
func (s *SubscriptionService) Upgrade(ctx context.Context, userID string) (models.Subscription, error) {
	expiry := s.now().Add(premiumTerm)
	sub := models.Subscription{Status: models.StatusPremium, ExpiryDate: &expiry}
	if err := s.subs.SetSubscription(ctx, userID, sub); err != nil {
		return models.Subscription{}, fmt.Errorf("set subscription: %w", err)
	}
	return sub, nil
}
