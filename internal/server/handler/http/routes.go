package http

import (
	"net/http"

	"github.com/saathi/saathi-go/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the Saathi
// API. It applies JSON content-type enforcement, request logging, and
// per-IP rate limiting, and mounts the endpoints under /api. Registration
// and login are public; everything else requires a bearer token.
//
// Routes:
//
//	POST /api/register             → authHandler.Register
//	POST /api/login                → authHandler.Login
//	POST /api/logout               → authHandler.Logout
//	GET  /api/session              → authHandler.Session
//	GET  /api/chat                 → chatHandler.History
//	POST /api/chat                 → chatHandler.Submit
//	GET  /api/moods                → moodHandler.List
//	POST /api/moods                → moodHandler.Record
//	GET  /api/subscription         → subHandler.Get
//	POST /api/subscription/upgrade → subHandler.Upgrade
//	GET  /api/credential           → credHandler.Status
//	PUT  /api/credential           → credHandler.Set
func NewRouter(
	authHandler *AuthHandler,
	chatHandler *ChatHandler,
	moodHandler *MoodHandler,
	subHandler *SubscriptionHandler,
	credHandler *CredentialHandler,
	logger *zap.Logger,
	jwtSecret string,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.RateLimit(10, 20))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))

			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)

			r.Get("/chat", chatHandler.History)
			r.Post("/chat", chatHandler.Submit)

			r.Get("/moods", moodHandler.List)
			r.Post("/moods", moodHandler.Record)

			r.Get("/subscription", subHandler.Get)
			r.Post("/subscription/upgrade", subHandler.Upgrade)

			r.Get("/credential", credHandler.Status)
			r.Put("/credential", credHandler.Set)
		})
	})

	return r
}
