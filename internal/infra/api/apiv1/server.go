// Package apiv1 is the JSON admin API consumed by the dashboard front-end.
package apiv1

import (
	"context"
	"net/http"
	"time"

	"activation-admin/internal/domain/ports/adapter"
	"activation-admin/internal/provision"
	"activation-admin/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 64 << 20

// LoginLimiter counts failed credential checks per key within a window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Blocked(ctx context.Context, key string, limit int) (bool, error)
	Reset(ctx context.Context, key string) error
}

type Deps struct {
	Codes         usecase.ActivationUseCase
	Books         usecase.EBookUseCase
	Push          usecase.BroadcastUseCase
	Verifier      adapter.CredentialVerifier
	Limiter       provision.Setup[LoginLimiter]
	LoginAttempts int
	LoginWindow   time.Duration
	Dev           bool
	Logger        *zerolog.Logger
}

type Server struct {
	codes    usecase.ActivationUseCase
	books    usecase.EBookUseCase
	push     usecase.BroadcastUseCase
	verifier adapter.CredentialVerifier
	limiter  provision.Setup[LoginLimiter]
	attempts int
	window   time.Duration
	dev      bool
	log      *zerolog.Logger
}

func NewServer(d Deps) *Server {
	if d.LoginAttempts <= 0 {
		d.LoginAttempts = 5
	}
	if d.LoginWindow <= 0 {
		d.LoginWindow = 15 * time.Minute
	}
	return &Server{
		codes:    d.Codes,
		books:    d.Books,
		push:     d.Push,
		verifier: d.Verifier,
		limiter:  d.Limiter,
		attempts: d.LoginAttempts,
		window:   d.LoginWindow,
		dev:      d.Dev,
		log:      d.Logger,
	}
}

// CORS returns the middleware for the dashboard origins. An empty list allows none.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RegisterAPIV1 mounts every /api/v1 route on r. All routes except login
// require HTTP Basic credentials.
func RegisterAPIV1(r chi.Router, s *Server) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RealIP)
		r.Post("/login", s.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(s.BasicAuth)

			pr.Get("/stats", s.GetStats)
			pr.Get("/stats/daily", s.wrapDailySeries)

			pr.Get("/codes", s.wrapListCodes)
			pr.Post("/codes", s.CreateCode)
			pr.Get("/codes/search", s.wrapSearchCodes)
			pr.Get("/codes/{id}", s.withID(s.GetCode))
			pr.Post("/codes/{id}/reset", s.withID(s.ResetCode))
			pr.Delete("/codes/{id}", s.withID(s.DeleteCode))

			pr.Get("/ebooks", s.wrapListEBooks)
			pr.Post("/ebooks", s.AddEBook)
			pr.Get("/ebooks/categories", s.ListCategories)
			pr.Post("/ebooks/upload", s.UploadEBookFile)
			pr.Patch("/ebooks/{id}", s.withID(s.UpdateEBook))
			pr.Delete("/ebooks/{id}", s.withID(s.DeleteEBook))

			pr.Post("/notifications", s.SendNotification)
			pr.Get("/notifications", s.wrapNotificationHistory)
			pr.Get("/notifications/{id}", s.withID(s.GetNotification))
		})
	})
}
