// Package service provides the business logic for authentication, the
// conversation session, subscriptions, and the mood log, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/saathi/saathi-go/internal/llm"
	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/quota"
	"github.com/saathi/saathi-go/internal/safety"
)

// Outcome names the terminal result of one message submission.
type Outcome string

const (
	// OutcomeNoOp means the submission was silently ignored (empty text or
	// another submission already in flight for the user).
	OutcomeNoOp Outcome = "noop"
	// OutcomeCredentialRequired means no completion credential is stored.
	OutcomeCredentialRequired Outcome = "credential_required"
	// OutcomeQuotaExceeded means the free-tier daily limit is spent.
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
	// OutcomeCrisisHandled means the message tripped the crisis screen and
	// was answered with the fixed redirect instead of the model.
	OutcomeCrisisHandled Outcome = "crisis_handled"
	// OutcomeCompleted means the conversation gained a user turn and an
	// assistant turn. Provider failures still complete: the failure text
	// becomes the assistant turn.
	OutcomeCompleted Outcome = "completed"
)

// SubmitResult is the outcome of a submission plus any messages it appended.
type SubmitResult struct {
	Outcome  Outcome              `json:"outcome"`
	Messages []models.ChatMessage `json:"messages,omitempty"`
}

// ChatRepository defines the persistence operations for conversation
// history. Append must be atomic across all messages of one call.
type ChatRepository interface {
	GetChats(ctx context.Context, userID string) ([]models.ChatMessage, error)
	AppendChats(ctx context.Context, userID string, msgs ...models.ChatMessage) error
}

// CredentialRepository stores the single process-wide completion credential.
// Get returns an empty string when no credential is stored.
type CredentialRepository interface {
	GetCredential(ctx context.Context) (string, error)
	SetCredential(ctx context.Context, credential string) error
}

// CompletionGateway generates an assistant reply for the given history and
// new user message. Failures are reported as *llm.ProviderError.
type CompletionGateway interface {
	Complete(ctx context.Context, credential string, history []models.ChatMessage, userMessage string) (string, error)
}

// ErrEmptyCredential is returned when storing a blank completion credential.
var ErrEmptyCredential = errors.New("credential must not be empty")

// idSource hands out millisecond-timestamp ids, bumped forward when two
// allocations land in the same instant, so ids stay strictly monotonic.
type idSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// next allocates n consecutive ids.
func (s *idSource) next(n int) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now().UnixMilli()
	if base <= s.last {
		base = s.last + 1
	}
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = base + int64(i)
	}
	s.last = base + int64(n) - 1
	return ids
}

// SessionService owns the message-submission state machine. It composes the
// crisis screen, the quota policy, and the completion gateway, and commits
// every terminal outcome to the chat repository.
type SessionService struct {
	chats   ChatRepository
	creds   CredentialRepository
	subs    SubscriptionRepository
	gateway CompletionGateway
	policy  *quota.Policy
	now     func() time.Time
	timeout time.Duration
	log     *zap.Logger

	ids idSource

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewSessionService constructs a SessionService. A nil clock falls back to
// time.Now; timeout bounds the gateway call.
func NewSessionService(
	chats ChatRepository,
	creds CredentialRepository,
	subs SubscriptionRepository,
	gateway CompletionGateway,
	policy *quota.Policy,
	clock func() time.Time,
	timeout time.Duration,
	log *zap.Logger,
) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{
		chats:    chats,
		creds:    creds,
		subs:     subs,
		gateway:  gateway,
		policy:   policy,
		now:      clock,
		timeout:  timeout,
		log:      log,
		ids:      idSource{now: clock},
		inFlight: make(map[string]bool),
	}
}

// acquire marks a submission in flight for the user. It returns false when
// one is already running; submissions are rejected, never queued.
func (s *SessionService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[userID] {
		return false
	}
	s.inFlight[userID] = true
	return true
}

func (s *SessionService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// Submit runs one message through the submission state machine. Gates are
// evaluated in order: blank/in-flight, credential presence, quota, crisis
// screen; only a message passing all four reaches the completion gateway.
// The user's own message is persisted before the network call begins, so a
// failure mid-call never loses user input. Gateway failures are converted
// into assistant-turn text rather than returned: the transcript stays the
// single source of truth for what happened.
func (s *SessionService) Submit(ctx context.Context, userID, rawText string) (SubmitResult, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return SubmitResult{Outcome: OutcomeNoOp}, nil
	}
	if !s.acquire(userID) {
		return SubmitResult{Outcome: OutcomeNoOp}, nil
	}
	defer s.release(userID)

	credential, err := s.creds.GetCredential(ctx)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get credential: %w", err)
	}
	if credential == "" {
		return SubmitResult{Outcome: OutcomeCredentialRequired}, nil
	}

	history, err := s.chats.GetChats(ctx, userID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get chats: %w", err)
	}
	sub, err := s.subs.GetSubscription(ctx, userID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("get subscription: %w", err)
	}
	if !s.policy.Allow(sub, history) {
		return SubmitResult{Outcome: OutcomeQuotaExceeded}, nil
	}

	if safety.Screen(text) {
		ids := s.ids.next(2)
		now := s.now()
		pair := []models.ChatMessage{
			{ID: ids[0], Role: models.RoleUser, Message: text, CreatedAt: now},
			{ID: ids[1], Role: models.RoleAssistant, Message: safety.RedirectMessage, Crisis: true, CreatedAt: now},
		}
		if err := s.chats.AppendChats(ctx, userID, pair...); err != nil {
			return SubmitResult{}, fmt.Errorf("append crisis pair: %w", err)
		}
		s.log.Info("crisis screen intercepted submission", zap.String("user_id", userID))
		return SubmitResult{Outcome: OutcomeCrisisHandled, Messages: pair}, nil
	}

	userMsg := models.ChatMessage{
		ID:        s.ids.next(1)[0],
		Role:      models.RoleUser,
		Message:   text,
		CreatedAt: s.now(),
	}
	if err := s.chats.AppendChats(ctx, userID, userMsg); err != nil {
		return SubmitResult{}, fmt.Errorf("append user message: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The gateway sees the history as it stood before the append above.
	reply, err := s.gateway.Complete(callCtx, credential, history, text)
	var replyText string
	if err != nil {
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			replyText = "Error: " + perr.Message
		} else {
			replyText = "Error: " + err.Error()
		}
		s.log.Warn("completion failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		replyText = reply
	}

	assistantMsg := models.ChatMessage{
		ID:        s.ids.next(1)[0],
		Role:      models.RoleAssistant,
		Message:   replyText,
		CreatedAt: s.now(),
	}
	if err := s.chats.AppendChats(ctx, userID, assistantMsg); err != nil {
		return SubmitResult{}, fmt.Errorf("append assistant message: %w", err)
	}

	return SubmitResult{
		Outcome:  OutcomeCompleted,
		Messages: []models.ChatMessage{userMsg, assistantMsg},
	}, nil
}

// History returns the user's conversation (oldest first) along with the
// count of user messages submitted today, for rendering the quota counter.
func (s *SessionService) History(ctx context.Context, userID string) ([]models.ChatMessage, int, error) {
	history, err := s.chats.GetChats(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("get chats: %w", err)
	}
	return history, s.policy.TodayCount(history), nil
}

// SetCredential stores the process-wide completion credential.
func (s *SessionService) SetCredential(ctx context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ErrEmptyCredential
	}
	return s.creds.SetCredential(ctx, credential)
}

// HasCredential reports whether a completion credential is stored.
func (s *SessionService) HasCredential(ctx context.Context) (bool, error) {
	credential, err := s.creds.GetCredential(ctx)
	if err != nil {
		return false, err
	}
	return credential != "", nil
}
