package entity

// Comment is a user's message and rating attached to a movie
type Comment struct {
	Base
	Message string `db:"message"`
	Rating  int    `db:"rating"` // 1-5
	UserID  int64  `db:"user_id"`
	MovieID int64  `db:"movie_id"`
}

// IsOwnedBy reports whether userID wrote the comment
func (c *Comment) IsOwnedBy(userID int64) bool {
	return c != nil && c.UserID == userID
}

// CommentWithAuthor adds the author's username for listing pages
type CommentWithAuthor struct {
	Comment
	Username string `db:"username"`
}
