package models

import (
	"errors"
	"testing"
	"time"
)

func TestConfirmBeforeSignFails(t *testing.T) {
	s := &SigningSession{Status: StatusPending}
	if err := s.MarkCompleted(time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm on pending: want ErrInvalidTransition, got %v", err)
	}
	if s.Status != StatusPending {
		t.Fatalf("status changed on failed transition: %s", s.Status)
	}
}

func TestSignThenConfirm(t *testing.T) {
	created := time.Now()
	s := &SigningSession{Status: StatusPending, CreatedAt: created}

	if err := s.MarkSigned("signed/a.pdf", created.Add(time.Second)); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if s.Status != StatusSigned || s.SignedPath == nil {
		t.Fatalf("after sign: status=%s path=%v", s.Status, s.SignedPath)
	}
	if err := s.MarkCompleted(created.Add(2 * time.Second)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if s.Status != StatusCompleted {
		t.Fatalf("after confirm: %s", s.Status)
	}
	if s.UpdatedAt.Before(s.CreatedAt) {
		t.Fatalf("UpdatedAt %v before CreatedAt %v", s.UpdatedAt, s.CreatedAt)
	}
}

func TestReSignWhileSigned(t *testing.T) {
	s := &SigningSession{Status: StatusPending}
	if err := s.MarkSigned("signed/v1.pdf", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkSigned("signed/v2.pdf", time.Now()); err != nil {
		t.Fatalf("re-sign while signed: %v", err)
	}
	if *s.SignedPath != "signed/v2.pdf" {
		t.Fatalf("artifact not replaced: %s", *s.SignedPath)
	}
}

func TestSignAfterCompletedForbidden(t *testing.T) {
	s := &SigningSession{Status: StatusCompleted}
	if err := s.MarkSigned("signed/x.pdf", time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("sign on completed: want ErrInvalidTransition, got %v", err)
	}
}

func TestConfirmTwiceForbidden(t *testing.T) {
	s := &SigningSession{Status: StatusSigned}
	if err := s.MarkCompleted(time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkCompleted(time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second confirm: want ErrInvalidTransition, got %v", err)
	}
}
