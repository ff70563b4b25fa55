package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-comments/internal/data/entity"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var commentColumns = []string{"id", "message", "rating", "user_id", "movie_id", "created_at", "updated_at"}

// commentConstraints maps table constraints to the form field they guard
var commentConstraints = map[string]string{
	"comments_message_check": "message",
	"comments_rating_check":  "rating",
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id int64) (*entity.Comment, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]*entity.CommentWithAuthor, error)
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id, userID int64) error
	GetMovieAverageRating(ctx context.Context, movieID int64) (float64, int64, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query, args, err := psql.
		Insert("comments").
		Columns("message", "rating", "user_id", "movie_id").
		Values(comment.Message, comment.Rating, comment.UserID, comment.MovieID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if pgErr, ok := asPgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			if pgErr.ConstraintName == "comments_movie_id_fkey" {
				return apperror.NotFound("movie", comment.MovieID)
			}
			return apperror.Unauthorized("unknown user")
		}
		if verr, ok := constraintError(err, commentConstraints); ok {
			return verr
		}

		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.Int64("user_id", comment.UserID),
			zap.Int64("movie_id", comment.MovieID),
		)
		return fmt.Errorf("create comment for movie %d by user %d: %w", comment.MovieID, comment.UserID, err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*entity.Comment, error) {
	query, args, err := psql.
		Select(commentColumns...).
		From("comments").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find comment: %w", err)
	}

	var comment entity.Comment
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&comment.ID,
		&comment.Message,
		&comment.Rating,
		&comment.UserID,
		&comment.MovieID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("comment", id)
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.Int64("comment_id", id),
		)
		return nil, fmt.Errorf("find comment by ID %d: %w", id, err)
	}

	return &comment, nil
}

func (r *commentRepository) FindByMovieID(ctx context.Context, movieID int64) ([]*entity.CommentWithAuthor, error) {
	query, args, err := psql.
		Select("c.id", "c.message", "c.rating", "c.user_id", "c.movie_id", "c.created_at", "c.updated_at", "u.username").
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where("c.movie_id = ?", movieID).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find comments by movie: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find comments by movie ID",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("find comments by movie ID %d: %w", movieID, err)
	}
	defer rows.Close()

	var comments []*entity.CommentWithAuthor
	for rows.Next() {
		var c entity.CommentWithAuthor
		err := rows.Scan(
			&c.ID,
			&c.Message,
			&c.Rating,
			&c.UserID,
			&c.MovieID,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Username,
		)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

// Update writes message and rating. The owner is part of the WHERE clause so
// a comment that changed hands since it was loaded is reported as not found.
func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	query, args, err := psql.
		Update("comments").
		Set("message", comment.Message).
		Set("rating", comment.Rating).
		Set("updated_at", sq.Expr("NOW()")).
		Where("id = ?", comment.ID).
		Where("user_id = ?", comment.UserID).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update comment: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&comment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("comment", comment.ID)
	}
	if err != nil {
		if verr, ok := constraintError(err, commentConstraints); ok {
			return verr
		}

		r.log.Error("Failed to update comment",
			zap.Error(err),
			zap.Int64("comment_id", comment.ID),
		)
		return fmt.Errorf("update comment %d: %w", comment.ID, err)
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id, userID int64) error {
	query, args, err := psql.
		Delete("comments").
		Where("id = ?", id).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete comment: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.Int64("comment_id", id),
		)
		return fmt.Errorf("delete comment %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("comment", id)
	}

	r.log.Info("Comment deleted", zap.Int64("comment_id", id))
	return nil
}

// GetMovieAverageRating returns the mean rating and the number of comments
func (r *commentRepository) GetMovieAverageRating(ctx context.Context, movieID int64) (float64, int64, error) {
	query, args, err := psql.
		Select("COALESCE(AVG(rating), 0)", "COUNT(*)").
		From("comments").
		Where("movie_id = ?", movieID).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("build movie rating: %w", err)
	}

	var avgRating float64
	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&avgRating, &count); err != nil {
		r.log.Error("Failed to get movie average rating",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return 0, 0, fmt.Errorf("get movie average rating for %d: %w", movieID, err)
	}

	return avgRating, count, nil
}
