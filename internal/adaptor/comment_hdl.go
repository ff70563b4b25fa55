package adaptor

import (
	"errors"
	"net/http"

	"movie-comments/internal/dto/request"
	"movie-comments/internal/dto/response"
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	page
	service usecase.CommentService
}

func NewCommentHandler(service usecase.CommentService, renderer view.Renderer, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		page: page{
			renderer: renderer,
			log:      log.With(zap.String("handler", "comment")),
		},
		service: service,
	}
}

// NewForm handles GET /movies/{movieId}/comments/new
func (h *CommentHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.ParseID(chi.URLParam(r, "movieId"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Movie not found")
		return
	}

	locals := h.locals(r)
	locals.MovieID = movieID
	h.render(w, r, http.StatusOK, view.CommentNew, locals)
}

// Create handles POST /movies/{movieId}/comments (authenticated)
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.ParseID(chi.URLParam(r, "movieId"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Movie not found")
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	req := commentRequest(r)

	if _, err := h.service.CreateComment(r.Context(), userID, movieID, req); err != nil {
		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			locals := h.locals(r)
			locals.MovieID = movieID
			locals.Errors = verr.Fields
			locals.Comment = response.RequestToForm(0, movieID, req)
			h.render(w, r, http.StatusUnprocessableEntity, view.CommentNew, locals)
			return
		}
		h.handleServiceError(w, r, err, "create comment")
		return
	}

	utils.ResponseRedirect(w, r, moviePath(movieID))
}

// EditForm handles GET /comments/{id}
func (h *CommentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	commentID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())

	comment, err := h.service.GetCommentForEdit(r.Context(), commentID, userID)
	if err != nil {
		h.handleServiceError(w, r, err, "show comment")
		return
	}

	locals := h.locals(r)
	locals.MovieID = comment.MovieID
	locals.Comment = response.CommentToForm(comment)
	h.render(w, r, http.StatusOK, view.CommentEdit, locals)
}

// Update handles PUT /comments/{id} (owner only)
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	req := commentRequest(r)

	comment, err := h.service.UpdateComment(r.Context(), commentID, userID, req)
	if err != nil {
		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			var movieID int64
			if comment != nil {
				movieID = comment.MovieID
			}
			locals := h.locals(r)
			locals.MovieID = movieID
			locals.Errors = verr.Fields
			locals.Comment = response.RequestToForm(commentID, movieID, req)
			h.render(w, r, http.StatusUnprocessableEntity, view.CommentEdit, locals)
			return
		}
		h.handleServiceError(w, r, err, "update comment")
		return
	}

	utils.ResponseRedirect(w, r, moviePath(comment.MovieID))
}

// Delete handles DELETE /comments/{id} (owner only)
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Comment not found")
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())

	comment, err := h.service.DeleteComment(r.Context(), commentID, userID)
	if err != nil {
		h.handleServiceError(w, r, err, "delete comment")
		return
	}

	utils.ResponseRedirect(w, r, moviePath(comment.MovieID))
}

func commentRequest(r *http.Request) *request.CommentRequest {
	return &request.CommentRequest{
		Message: r.PostFormValue("message"),
		Rating:  r.PostFormValue("rating"),
	}
}
