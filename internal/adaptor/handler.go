package adaptor

import (
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Movie   *MovieHandler
	Comment *CommentHandler
}

func NewHandler(service *usecase.Service, renderer view.Renderer, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, renderer, config.Session, log),
		Movie:   NewMovieHandler(service.Movie, renderer, log),
		Comment: NewCommentHandler(service.Comment, renderer, log),
	}
}
