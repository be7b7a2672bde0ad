package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrPropertyNotFound      = errors.New("property not found")
	ErrFavoriteNotFound      = errors.New("favorite not found")
	ErrFavoriteExists        = errors.New("favorite already exists")
	ErrInquiryNotFound       = errors.New("inquiry not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrSavedSearchNotFound   = errors.New("saved search not found")
	ErrPreferencesNotFound   = errors.New("search preferences not found")
	ErrEmailTaken            = errors.New("email already taken")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
)

// IsUniqueViolation сообщает, нарушено ли уникальное ограничение Postgres.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
