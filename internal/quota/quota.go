// Package quota decides whether a free-tier user may submit another message
// today. Premium subscriptions are never limited.
package quota

import (
	"time"

	"github.com/saathi/saathi-go/internal/models"
)

// FreeDailyLimit is the number of user-authored messages a free-tier user
// may submit per local calendar day.
const FreeDailyLimit = 20

// Clock supplies the current time. Injected so day-boundary behavior is
// testable without touching the wall clock.
type Clock func() time.Time

// Policy evaluates the daily free-tier quota against a conversation history.
type Policy struct {
	now Clock
}

// NewPolicy constructs a Policy. A nil clock falls back to time.Now.
func NewPolicy(now Clock) *Policy {
	if now == nil {
		now = time.Now
	}
	return &Policy{now: now}
}

// Allow reports whether the user may submit one more message. The history
// passed in is the existing conversation; the message being gated is not
// part of it yet. The day boundary is the local calendar date, not a
// rolling 24h window.
func (p *Policy) Allow(sub models.Subscription, history []models.ChatMessage) bool {
	if sub.Status == models.StatusPremium {
		return true
	}
	return p.TodayCount(history) < FreeDailyLimit
}

// TodayCount returns how many user-authored messages in history fall on the
// current calendar day in the clock's location.
func (p *Policy) TodayCount(history []models.ChatMessage) int {
	now := p.now()
	y, m, d := now.Date()
	count := 0
	for _, msg := range history {
		if msg.Role != models.RoleUser {
			continue
		}
		cy, cm, cd := msg.CreatedAt.In(now.Location()).Date()
		if cy == y && cm == m && cd == d {
			count++
		}
	}
	return count
}
