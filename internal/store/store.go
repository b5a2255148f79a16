// Package store is the gorm-backed access layer to the hosted Postgres
// database.
package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("store: record not found")
	ErrConflict = errors.New("store: record already exists")
)

// translate maps gorm sentinels onto the store's own. The DB must be opened
// with TranslateError for duplicate keys to surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

// validID reports whether id can be compared against a uuid column. Postgres
// rejects malformed input with 22P02 instead of matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
