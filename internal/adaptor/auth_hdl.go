package adaptor

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"movie-comments/internal/dto/request"
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

const defaultLandingPath = "/"

type AuthHandler struct {
	page
	service usecase.AuthService
	config  utils.SessionConfig
}

func NewAuthHandler(service usecase.AuthService, renderer view.Renderer, config utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		page: page{
			renderer: renderer,
			log:      log.With(zap.String("handler", "auth")),
		},
		service: service,
		config:  config,
	}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	locals := h.locals(r)
	locals.ReturnTo = returnPath(r.URL.Query().Get("return_to"))
	h.render(w, r, http.StatusOK, view.Login, locals)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := request.LoginRequest{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		locals := h.locals(r)
		locals.Username = req.Username
		locals.ReturnTo = returnPath(r.PostFormValue("return_to"))

		var verr *apperror.ValidationError
		switch {
		case errors.As(err, &verr):
			locals.Errors = verr.Fields
			h.render(w, r, http.StatusUnprocessableEntity, view.Login, locals)
		case errors.Is(err, apperror.ErrUnauthorized):
			locals.Errors = map[string][]string{"form": {"Invalid username or password"}}
			h.render(w, r, http.StatusUnauthorized, view.Login, locals)
		default:
			h.handleServiceError(w, r, err, "login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    auth.Token,
		Path:     "/",
		Expires:  auth.ExpiresAt,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseRedirect(w, r, returnPath(r.PostFormValue("return_to")))
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := utils.GetTokenFromContext(r.Context()); ok {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.handleServiceError(w, r, err, "logout")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseRedirect(w, r, "/login")
}

// returnPath only accepts local absolute paths
func returnPath(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultLandingPath
	}
	return target
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
