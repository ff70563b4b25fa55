package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"movie-comments/internal/view"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// ErrorRenderer renders the error page for middleware that runs outside
// a handler
type ErrorRenderer interface {
	RenderError(w http.ResponseWriter, r *http.Request, status int, message string)
}

// page is embedded by every handler that answers with HTML
type page struct {
	renderer view.Renderer
	log      *zap.Logger
}

// locals seeds the data every view needs: the current user and a CSRF token
func (p page) locals(r *http.Request) view.Locals {
	return view.Locals{
		User:      currentUser(r),
		Errors:    map[string][]string{},
		CSRFToken: csrf.Token(r),
		CSRFField: csrf.TemplateField(r),
	}
}

func (p page) render(w http.ResponseWriter, r *http.Request, status int, name string, locals view.Locals) {
	if err := p.renderer.Render(w, status, name, locals); err != nil {
		p.log.Error("Failed to render view",
			zap.String("view", name),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		utils.ResponseInternalError(w)
	}
}

func (p page) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	locals := p.locals(r)
	locals.Status = status
	locals.Message = message
	p.render(w, r, status, view.Error, locals)
}

// handleServiceError maps a service error to its status and renders the
// error page. Validation errors are handled by the caller, which owns the form.
func (p page) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		p.log.Warn(operation+" failed - not found", zap.Error(err))
		p.RenderError(w, r, http.StatusNotFound, messageOf(err, "Not found"))

	case errors.Is(err, apperror.ErrUnauthorized):
		p.log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		p.RenderError(w, r, http.StatusUnauthorized, messageOf(err, "Authentication required"))

	case errors.Is(err, apperror.ErrForbidden):
		p.log.Warn(operation+" failed - forbidden", zap.Error(err))
		p.RenderError(w, r, http.StatusForbidden, messageOf(err, "Forbidden"))

	default:
		p.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		p.RenderError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// messageOf returns the user-facing message of an AppError
func messageOf(err error, fallback string) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

func currentUser(r *http.Request) *view.CurrentUser {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	username, _ := utils.GetUsernameFromContext(r.Context())
	return &view.CurrentUser{ID: userID, Username: username}
}

func moviePath(movieID int64) string {
	return fmt.Sprintf("/movies/%d", movieID)
}
