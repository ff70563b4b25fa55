package request

// CommentRequest is the submitted comment form. Rating stays a string so a
// non-numeric value can be reported as a field error and echoed back.
type CommentRequest struct {
	Message string `form:"message" validate:"required,max=1000"`
	Rating  string `form:"rating" validate:"required"`
}

type CreateMovieRequest struct {
	Title       string  `form:"title" validate:"required,max=255"`
	Description *string `form:"description"`
	ReleaseYear *int    `form:"release_year" validate:"omitempty,min=1888,max=2100"`
}
