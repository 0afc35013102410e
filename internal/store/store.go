// Package store persists session and document records through gorm. Callers
// see domain errors, not driver details: record-not-found becomes
// models.ErrNotFound and any write failure surfaces as a PersistenceError.
package store

import (
	"errors"

	"gorm.io/gorm"

	"parapheur/internal/models"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) Sessions() *SessionStore   { return &SessionStore{db: s.DB} }
func (s *Store) Documents() *DocumentStore { return &DocumentStore{db: s.DB} }

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return &models.PersistenceError{Op: op, Err: err}
}
