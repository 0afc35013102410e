package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parapheur/internal/models"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Document{}, &models.SigningSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func testSession(id, token string) *models.SigningSession {
	return &models.SigningSession{
		ID:         id,
		Token:      token,
		DocumentID: "doc-1",
		Page:       0,
		PosX:       100, PosY: 200, Width: 150, Height: 60,
		Status: models.StatusPending,
	}
}

func TestSessionCRUD(t *testing.T) {
	st := setupTestDB(t)
	ctx := context.Background()
	sessions := st.Sessions()

	s := testSession("id-1", "tok-1")
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := sessions.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "tok-1" || got.Status != models.StatusPending {
		t.Fatalf("unexpected record: %+v", got)
	}

	byTok, err := sessions.GetByToken(ctx, "tok-1")
	if err != nil || byTok.ID != "id-1" {
		t.Fatalf("get by token: %+v %v", byTok, err)
	}

	got.Status = models.StatusSigned
	if err := sessions.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := sessions.Get(ctx, "id-1")
	if err != nil || again.Status != models.StatusSigned {
		t.Fatalf("save not visible: %+v %v", again, err)
	}

	if err := sessions.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := sessions.GetByToken(ctx, "tok-1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("after delete: want ErrNotFound, got %v", err)
	}
}

func TestTokenUniqueness(t *testing.T) {
	st := setupTestDB(t)
	ctx := context.Background()
	sessions := st.Sessions()

	if err := sessions.Create(ctx, testSession("id-1", "tok-same")); err != nil {
		t.Fatal(err)
	}
	err := sessions.Create(ctx, testSession("id-2", "tok-same"))
	var pe *models.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("duplicate token: want PersistenceError, got %v", err)
	}
}

func TestNotFoundMapping(t *testing.T) {
	st := setupTestDB(t)
	ctx := context.Background()

	if _, err := st.Sessions().Get(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("session get: %v", err)
	}
	if err := st.Sessions().Delete(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("session delete: %v", err)
	}
	if _, err := st.Documents().Get(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("document get: %v", err)
	}
}
