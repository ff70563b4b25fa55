package adaptor

import (
	"net/http"

	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	page
	service usecase.MovieService
}

func NewMovieHandler(service usecase.MovieService, renderer view.Renderer, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		page: page{
			renderer: renderer,
			log:      log.With(zap.String("handler", "movie")),
		},
		service: service,
	}
}

// Show handles GET /movies/{movieId}
func (h *MovieHandler) Show(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.ParseID(chi.URLParam(r, "movieId"))
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Movie not found")
		return
	}

	movie, err := h.service.GetMoviePage(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, r, err, "show movie")
		return
	}

	locals := h.locals(r)
	locals.MovieID = movie.ID
	locals.Movie = movie
	h.render(w, r, http.StatusOK, view.MovieShow, locals)
}
