package usecase

import (
	"context"
	"fmt"
	"strings"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/dto/request"
	"movie-comments/internal/dto/response"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	GetMoviePage(ctx context.Context, movieID int64) (*response.MoviePage, error)
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*entity.Movie, error)
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMoviePage(ctx context.Context, movieID int64) (*response.MoviePage, error) {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}

	comments, err := s.repo.Comment.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie comments: %w", err)
	}

	avg, count, err := s.repo.Comment.GetMovieAverageRating(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie rating: %w", err)
	}

	return response.MovieToPage(movie, comments, avg, count), nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*entity.Movie, error) {
	req.Title = strings.TrimSpace(req.Title)

	if verr := utils.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	movie := &entity.Movie{
		Title:       req.Title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", movie.Title))

	return movie, nil
}
