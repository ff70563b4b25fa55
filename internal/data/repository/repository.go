package repository

import (
	"errors"

	"movie-comments/pkg/apperror"
	"movie-comments/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// psql builds $n-placeholder statements for pgx
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgreSQL error codes we translate into domain errors
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgStringTooLong       = "22001"
	pgUniqueViolation     = "23505"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Movie   MovieRepository
	Comment CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Movie:   NewMovieRepository(db, log),
		Comment: NewCommentRepository(db, log),
	}
}

// asPgError unwraps a server-side PostgreSQL error
func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// constraintError maps constraint violations to field errors using the
// column each constraint guards. ok is false for any other error.
func constraintError(err error, columns map[string]string) (*apperror.ValidationError, bool) {
	pgErr, ok := asPgError(err)
	if !ok {
		return nil, false
	}

	switch pgErr.Code {
	case pgCheckViolation, pgUniqueViolation:
		if field, found := columns[pgErr.ConstraintName]; found {
			return apperror.NewValidationError().Add(field, "Invalid value"), true
		}
	case pgNotNullViolation:
		if pgErr.ColumnName != "" {
			return apperror.NewValidationError().Add(pgErr.ColumnName, "This field is required"), true
		}
	case pgStringTooLong:
		return apperror.NewValidationError().Add("form", "Value is too long"), true
	}

	return nil, false
}
