package store

import (
	"context"

	"gorm.io/gorm"

	"parapheur/internal/models"
)

type SessionStore struct{ db *gorm.DB }

func (ss *SessionStore) Create(ctx context.Context, s *models.SigningSession) error {
	return translate("session create", ss.db.WithContext(ctx).Create(s).Error)
}

// Save writes the full record back; ID and Token never change after create.
func (ss *SessionStore) Save(ctx context.Context, s *models.SigningSession) error {
	return translate("session save", ss.db.WithContext(ctx).Save(s).Error)
}

func (ss *SessionStore) Get(ctx context.Context, id string) (*models.SigningSession, error) {
	var s models.SigningSession
	if err := ss.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate("session get", err)
	}
	return &s, nil
}

func (ss *SessionStore) GetByToken(ctx context.Context, token string) (*models.SigningSession, error) {
	var s models.SigningSession
	if err := ss.db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		return nil, translate("session get by token", err)
	}
	return &s, nil
}

func (ss *SessionStore) List(ctx context.Context) ([]models.SigningSession, error) {
	var out []models.SigningSession
	if err := ss.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, translate("session list", err)
	}
	return out, nil
}

func (ss *SessionStore) Delete(ctx context.Context, id string) error {
	tx := ss.db.WithContext(ctx).Delete(&models.SigningSession{}, "id = ?", id)
	if tx.Error != nil {
		return translate("session delete", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
