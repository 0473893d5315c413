package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saathi/saathi-go/internal/token"
)

const secret = "test-secret"

func protected(t *testing.T, gotUser *string) http.Handler {
	t.Helper()
	return JWTAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := token.Generate("u_1", secret, time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var gotUser string
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	protected(t, &gotUser).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if gotUser != "u_1" {
		t.Errorf("user id in context = %q; want %q", gotUser, "u_1")
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	expired, err := token.Generate("u_1", secret, -time.Minute)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/chat", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			protected(t, &gotUser).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d; want 401", rec.Code)
			}
			if gotUser != "" {
				t.Errorf("handler ran with user %q; want no call", gotUser)
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetUserIDFromContext(req.Context()); got != "" {
		t.Errorf("GetUserIDFromContext = %q; want empty", got)
	}
}
