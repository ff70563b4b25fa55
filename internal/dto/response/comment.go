package response

import (
	"strconv"
	"time"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/dto/request"
)

// CommentForm holds the values shown in the new/edit comment forms
type CommentForm struct {
	ID      int64
	MovieID int64
	Message string
	Rating  string
}

func CommentToForm(comment *entity.Comment) *CommentForm {
	return &CommentForm{
		ID:      comment.ID,
		MovieID: comment.MovieID,
		Message: comment.Message,
		Rating:  strconv.Itoa(comment.Rating),
	}
}

// RequestToForm echoes submitted values back after a failed submission
func RequestToForm(id, movieID int64, req *request.CommentRequest) *CommentForm {
	return &CommentForm{
		ID:      id,
		MovieID: movieID,
		Message: req.Message,
		Rating:  req.Rating,
	}
}

type CommentResponse struct {
	ID        int64
	UserID    int64
	Username  string
	Message   string
	Rating    int
	CreatedAt time.Time
}

func CommentToResponse(c *entity.CommentWithAuthor) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Username:  c.Username,
		Message:   c.Message,
		Rating:    c.Rating,
		CreatedAt: c.CreatedAt,
	}
}
