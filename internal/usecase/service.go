package usecase

import (
	"movie-comments/internal/data/repository"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Movie   MovieService
	Comment CommentService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Movie:   NewMovieService(repo, log),
		Comment: NewCommentService(repo, config.Comment, log),
	}
}
