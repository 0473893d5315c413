// Package models defines the core data structures for users, conversation
// history, mood entries, and subscriptions.
package models

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the unique address the user signed up with.
	Email string `json:"email"`
	// Name is the display name shown in the conversation.
	Name string `json:"name"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte `json:"-"`
}

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a message written by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a message written by the companion.
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in a user's conversation. Messages are append-only
// and ordered by ID, which is a millisecond timestamp made strictly
// monotonic per user.
type ChatMessage struct {
	ID      int64  `json:"id"`
	Role    Role   `json:"role"`
	Message string `json:"message"`
	// Crisis is set on the synthetic assistant turn appended when a
	// submission was intercepted by the crisis screen.
	Crisis    bool      `json:"crisis,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MoodEntry records one mood check-in. Append-only, scoped to one user.
type MoodEntry struct {
	ID        int64     `json:"id"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionStatus is the tier of a user's subscription.
type SubscriptionStatus string

const (
	// StatusFree is the default tier, capped at a daily message quota.
	StatusFree SubscriptionStatus = "free"
	// StatusPremium removes the daily quota.
	StatusPremium SubscriptionStatus = "premium"
)

// Subscription holds the tier of a single user. ExpiryDate is recorded on
// upgrade but never checked anywhere; premium does not lapse automatically.
type Subscription struct {
	Status     SubscriptionStatus `json:"status"`
	ExpiryDate *time.Time         `json:"expiry_date"`
}

// FreeSubscription returns the default subscription for a new user.
func FreeSubscription() Subscription {
	return Subscription{Status: StatusFree}
}

// Mood is one entry of the fixed mood catalog.
type Mood struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Moods is the fixed catalog offered by the mood picker.
var Moods = []Mood{
	{Emoji: "🙂", Label: "Good"},
	{Emoji: "😐", Label: "Okay"},
	{Emoji: "😔", Label: "Sad"},
	{Emoji: "😡", Label: "Angry"},
	{Emoji: "😢", Label: "Crying"},
}

// ValidMood reports whether label names an entry of the mood catalog.
func ValidMood(label string) bool {
	for _, m := range Moods {
		if m.Label == label {
			return true
		}
	}
	return false
}
