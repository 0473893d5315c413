package http

import (
	"context"
	"net/http"

	"github.com/saathi/saathi-go/internal/middleware"
	"github.com/saathi/saathi-go/internal/models"
)

// SubscriptionService defines the subscription operations required by the
// SubscriptionHandler.
type SubscriptionService interface {
	Get(ctx context.Context, userID string) (models.Subscription, error)
	Upgrade(ctx context.Context, userID string) (models.Subscription, error)
}

// SubscriptionHandler handles HTTP requests for subscription state.
type SubscriptionHandler struct {
	SubscriptionService SubscriptionService
}

// Get handles GET /api/subscription.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	sub, err := h.SubscriptionService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Upgrade handles POST /api/subscription/upgrade. Re-upgrading resets the
// 30-day window from the call time.
func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	sub, err := h.SubscriptionService.Upgrade(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
