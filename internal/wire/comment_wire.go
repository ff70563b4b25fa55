package wire

import (
	"movie-comments/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler) {
	r.Route("/movies/{movieId}/comments", func(r chi.Router) {
		// GET /movies/{movieId}/comments/new - new comment form
		r.Get("/new", commentHandler.NewForm)

		// POST /movies/{movieId}/comments - create (authenticated)
		r.Post("/", commentHandler.Create)
	})

	r.Route("/comments/{id}", func(r chi.Router) {
		// GET /comments/{id} - edit form
		r.Get("/", commentHandler.EditForm)

		// PUT /comments/{id} - update (owner only)
		r.Put("/", commentHandler.Update)

		// DELETE /comments/{id} - delete (owner only)
		r.Delete("/", commentHandler.Delete)
	})
}
