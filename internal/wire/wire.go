// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"movie-comments/internal/adaptor"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/middleware"
	"movie-comments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// Pinger reports database reachability for /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers and the router
func Wiring(
	repo *repository.Repository,
	db Pinger,
	config *utils.Config,
	renderer view.Renderer,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, renderer, config, logger)

	router := setupRouter(handler, service, db, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. Method override runs before routing so tunnelled
	// PUT/DELETE forms reach their routes; the session is resolved before
	// CSRF so its error page knows who is signed in.
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.MethodOverride)
	r.Use(middleware.Session(service.Auth, config.Session.CookieName, logger))
	r.Use(csrfProtect(config.CSRF, handler.Auth, logger))

	wireAuth(r, handler.Auth)
	wireMovie(r, handler.Movie)
	wireComment(r, handler.Comment)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseText(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.ResponseText(w, http.StatusOK, "OK")
	})

	return r
}

// csrfProtect builds the CSRF middleware for this router from config.
// Without TLS, requests are marked plaintext so the Referer check that
// only makes sense over HTTPS is skipped.
func csrfProtect(config utils.CSRFConfig, forbidden adaptor.ErrorRenderer, logger *zap.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		[]byte(config.AuthKey),
		csrf.FieldName(config.FieldName),
		csrf.Secure(config.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			forbidden.RenderError(w, r, http.StatusForbidden, "Invalid or missing CSRF token")
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if config.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
