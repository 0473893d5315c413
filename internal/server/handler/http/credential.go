package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saathi/saathi-go/internal/service"
)

// CredentialService defines the operations for the stored completion
// credential required by the CredentialHandler.
type CredentialService interface {
	SetCredential(ctx context.Context, credential string) error
	HasCredential(ctx context.Context) (bool, error)
}

// CredentialHandler handles HTTP requests for the process-wide completion
// credential. The secret itself is write-only: status reports presence,
// never the value.
type CredentialHandler struct {
	CredentialService CredentialService
}

// SetCredentialRequest represents the JSON payload for storing the
// credential.
type SetCredentialRequest struct {
	Credential string `json:"credential"`
}

// Set handles PUT /api/credential.
func (h *CredentialHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	err := h.CredentialService.SetCredential(r.Context(), req.Credential)
	if errors.Is(err, service.ErrEmptyCredential) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /api/credential.
func (h *CredentialHandler) Status(w http.ResponseWriter, r *http.Request) {
	present, err := h.CredentialService.HasCredential(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"present": present})
}
