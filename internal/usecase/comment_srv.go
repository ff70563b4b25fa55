package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/dto/request"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

// CommentService owns comment authorization and validation. A userID of 0
// means the request is anonymous.
type CommentService interface {
	CreateComment(ctx context.Context, userID, movieID int64, req *request.CommentRequest) (*entity.Comment, error)
	GetCommentForEdit(ctx context.Context, commentID, userID int64) (*entity.Comment, error)

	// UpdateComment returns the stored comment alongside a validation error so
	// the caller can re-render the form for the right movie.
	UpdateComment(ctx context.Context, commentID, userID int64, req *request.CommentRequest) (*entity.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID int64) (*entity.Comment, error)
}

type commentService struct {
	repo   *repository.Repository
	config utils.CommentConfig
	log    *zap.Logger
}

func NewCommentService(repo *repository.Repository, config utils.CommentConfig, log *zap.Logger) CommentService {
	return &commentService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, movieID int64, req *request.CommentRequest) (*entity.Comment, error) {
	if userID <= 0 {
		return nil, apperror.Unauthorized("sign in to post a comment")
	}

	rating, err := validateComment(req)
	if err != nil {
		s.log.Debug("Create comment validation failed", zap.Error(err))
		return nil, err
	}

	// Check if movie exists
	if _, err := s.repo.Movie.FindByID(ctx, movieID); err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}

	comment := &entity.Comment{
		Message: req.Message,
		Rating:  rating,
		UserID:  userID,
		MovieID: movieID,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("user_id", userID),
		zap.Int64("movie_id", movieID),
		zap.Int("rating", rating),
	)

	return comment, nil
}

func (s *commentService) GetCommentForEdit(ctx context.Context, commentID, userID int64) (*entity.Comment, error) {
	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}

	if s.config.EditFormPolicy == utils.EditFormOwner {
		if err := authorizeOwner(comment, userID, "edit"); err != nil {
			return nil, err
		}
	}

	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, commentID, userID int64, req *request.CommentRequest) (*entity.Comment, error) {
	if userID <= 0 {
		return nil, apperror.Unauthorized("sign in to edit a comment")
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}

	if err := authorizeOwner(comment, userID, "update"); err != nil {
		s.log.Warn("Comment update rejected",
			zap.Int64("comment_id", commentID),
			zap.Int64("user_id", userID),
			zap.Int64("owner_id", comment.UserID),
		)
		return nil, err
	}

	rating, err := validateComment(req)
	if err != nil {
		return comment, err
	}

	updated := *comment
	updated.Message = req.Message
	updated.Rating = rating

	if err := s.repo.Comment.Update(ctx, &updated); err != nil {
		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			return comment, err
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.log.Info("Comment updated",
		zap.Int64("comment_id", commentID),
		zap.Int64("user_id", userID),
		zap.Int("rating", rating),
	)

	return &updated, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID int64) (*entity.Comment, error) {
	if userID <= 0 {
		return nil, apperror.Unauthorized("sign in to delete a comment")
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}

	if err := authorizeOwner(comment, userID, "delete"); err != nil {
		s.log.Warn("Comment delete rejected",
			zap.Int64("comment_id", commentID),
			zap.Int64("user_id", userID),
			zap.Int64("owner_id", comment.UserID),
		)
		return nil, err
	}

	if err := s.repo.Comment.Delete(ctx, commentID, userID); err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted",
		zap.Int64("comment_id", commentID),
		zap.Int64("user_id", userID),
		zap.Int64("movie_id", comment.MovieID),
	)

	return comment, nil
}

// ==================== HELPER METHODS ====================

func authorizeOwner(comment *entity.Comment, userID int64, action string) error {
	if userID <= 0 {
		return apperror.Unauthorized("sign in to " + action + " this comment")
	}
	if !comment.IsOwnedBy(userID) {
		return apperror.Forbidden("you can only " + action + " your own comments")
	}
	return nil
}

// validateComment normalises req in place and returns the parsed rating
func validateComment(req *request.CommentRequest) (int, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.Rating = strings.TrimSpace(req.Rating)

	verr := utils.ValidateStruct(req)
	if verr == nil {
		verr = apperror.NewValidationError()
	}

	var rating int
	if req.Rating != "" {
		n, err := strconv.Atoi(req.Rating)
		switch {
		case err != nil:
			verr.Add("rating", "Must be a number")
		case n < minRating || n > maxRating:
			verr.Add("rating", fmt.Sprintf("Must be between %d and %d", minRating, maxRating))
		default:
			rating = n
		}
	}

	if verr.HasErrors() {
		return 0, verr
	}
	return rating, nil
}
