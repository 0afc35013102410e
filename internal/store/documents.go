package store

import (
	"context"

	"gorm.io/gorm"

	"parapheur/internal/models"
)

type DocumentStore struct{ db *gorm.DB }

func (ds *DocumentStore) Create(ctx context.Context, d *models.Document) error {
	return translate("document create", ds.db.WithContext(ctx).Create(d).Error)
}

func (ds *DocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	if err := ds.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate("document get", err)
	}
	return &d, nil
}

func (ds *DocumentStore) List(ctx context.Context) ([]models.Document, error) {
	var out []models.Document
	if err := ds.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, translate("document list", err)
	}
	return out, nil
}

func (ds *DocumentStore) Delete(ctx context.Context, id string) error {
	return translate("document delete", ds.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error)
}
