package models

import "time"

// SessionStatus is the lifecycle state of a signing session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusSigned    SessionStatus = "signed"
	StatusCompleted SessionStatus = "completed"
)

// SigningSession ties a guest to a placement rectangle on one page of a
// document. ID is internal and never exposed to guests; Token is the
// unguessable identifier embedded in the guest-facing URL.
//
// The placement (PosX, PosY, Width, Height) is stored in the page's native
// coordinate space: bottom-left origin, points at scale 1.0.
type SigningSession struct {
	ID         string   `gorm:"primaryKey;size:36" json:"id"`
	Token      string   `gorm:"uniqueIndex;size:64;not null" json:"token"`
	DocumentID string   `gorm:"index;not null" json:"documentId"`
	Document   Document `gorm:"foreignKey:DocumentID" json:"-"`

	// SignedPath points at the stamped artifact; nil until the first sign.
	// The session owns this blob: deleting the session deletes it.
	SignedPath *string `gorm:"size:255" json:"-"`

	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`

	Page   int     `gorm:"not null" json:"page"` // zero-based
	PosX   float64 `json:"x"`
	PosY   float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Status    SessionStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (SigningSession) TableName() string { return "signing_sessions" }

// MarkSigned transitions the session to signed and records the stamped
// artifact. Signing is re-entrant while signed (the artifact is replaced) but
// forbidden once the session is completed.
func (s *SigningSession) MarkSigned(signedPath string, now time.Time) error {
	if s.Status != StatusPending && s.Status != StatusSigned {
		return ErrInvalidTransition
	}
	s.Status = StatusSigned
	s.SignedPath = &signedPath
	s.UpdatedAt = now
	return nil
}

// MarkCompleted transitions signed -> completed. Completed is terminal.
func (s *SigningSession) MarkCompleted(now time.Time) error {
	if s.Status != StatusSigned {
		return ErrInvalidTransition
	}
	s.Status = StatusCompleted
	s.UpdatedAt = now
	return nil
}
