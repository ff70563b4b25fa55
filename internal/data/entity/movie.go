package entity

type Movie struct {
	Base
	Title       string  `db:"title"`
	Description *string `db:"description"`
	ReleaseYear *int    `db:"release_year"`
}
