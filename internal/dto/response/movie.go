package response

import (
	"movie-comments/internal/data/entity"
)

// MoviePage is everything the movie detail view needs
type MoviePage struct {
	ID            int64
	Title         string
	Description   string
	ReleaseYear   int
	AverageRating float64
	CommentCount  int64
	Comments      []CommentResponse
}

func MovieToPage(movie *entity.Movie, comments []*entity.CommentWithAuthor, avg float64, count int64) *MoviePage {
	page := &MoviePage{
		ID:            movie.ID,
		Title:         movie.Title,
		AverageRating: avg,
		CommentCount:  count,
		Comments:      make([]CommentResponse, 0, len(comments)),
	}
	if movie.Description != nil {
		page.Description = *movie.Description
	}
	if movie.ReleaseYear != nil {
		page.ReleaseYear = *movie.ReleaseYear
	}
	for _, c := range comments {
		page.Comments = append(page.Comments, CommentToResponse(c))
	}
	return page
}
