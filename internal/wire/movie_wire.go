package wire

import (
	"movie-comments/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// GET /movies/{movieId} - movie page with its comments
	r.Get("/movies/{movieId}", movieHandler.Show)
}
