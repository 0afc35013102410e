// Package services implements the signing workflow: uploading source
// documents, creating signing sessions, stamping signatures, and walking the
// session lifecycle (pending -> signed -> completed).
package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parapheur/internal/geometry"
	"parapheur/internal/mailer"
	"parapheur/internal/models"
	"parapheur/internal/stamp"
	"parapheur/internal/storage"
	"parapheur/internal/store"
)

type SigningService struct {
	store   *store.Store
	blobs   *storage.Store
	stamper *stamp.Stamper
	mail    mailer.Mailer
	baseURL string

	// mu serializes session mutations so each read-modify-write cycle is
	// atomic with respect to other mutations of the same record.
	mu sync.Mutex
}

func NewSigningService(st *store.Store, blobs *storage.Store, stamper *stamp.Stamper, mail mailer.Mailer, baseURL string) *SigningService {
	return &SigningService{
		store:   st,
		blobs:   blobs,
		stamper: stamper,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// UploadDocument validates and stores a source PDF, recording its page count.
func (s *SigningService) UploadDocument(ctx context.Context, name string, data []byte) (*models.Document, error) {
	if len(data) == 0 {
		return nil, &models.ValidationError{Field: "file", Reason: "empty upload"}
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, &models.ValidationError{Field: "file", Reason: "not a PDF document"}
	}
	pageCount, _, err := s.stamper.Inspect(data)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      int64(len(data)),
		PageCount: pageCount,
		CreatedAt: time.Now().UTC(),
	}
	path, err := s.blobs.SaveDocument(doc.ID, data)
	if err != nil {
		return nil, &models.PersistenceError{Op: "document upload", Err: err}
	}
	doc.Path = path
	if err := s.store.Documents().Create(ctx, doc); err != nil {
		_ = s.blobs.Remove(path)
		return nil, err
	}
	slog.Info("document uploaded", "documentId", doc.ID, "pages", doc.PageCount, "bytes", doc.Size)
	return doc, nil
}

// DocumentContent loads a document record together with its PDF bytes.
func (s *SigningService) DocumentContent(ctx context.Context, id string) (*models.Document, []byte, error) {
	doc, err := s.store.Documents().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Read(doc.Path)
	if err != nil {
		return nil, nil, &models.PersistenceError{Op: "document read", Err: err}
	}
	return doc, data, nil
}

type CreateSessionInput struct {
	DocumentID string
	Page       int
	Rect       geometry.Rect
	GuestName  string
	GuestEmail string
}

// CreateSession persists a pending session anchored at a placement rectangle
// (already mapped into page coordinates) and invites the guest by email when
// an address was given. Mail failure never fails the creation.
func (s *SigningService) CreateSession(ctx context.Context, in CreateSessionInput) (*models.SigningSession, error) {
	if in.DocumentID == "" {
		return nil, &models.ValidationError{Field: "documentId", Reason: "missing"}
	}
	if in.Rect.Width <= 0 || in.Rect.Height <= 0 {
		return nil, &models.ValidationError{Field: "rect", Reason: "width and height must be positive"}
	}
	doc, err := s.store.Documents().Get(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if in.Page < 0 || in.Page >= doc.PageCount {
		return nil, &stamp.PageNotFoundError{Page: in.Page, PageCount: doc.PageCount}
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	now := time.Now().UTC()
	sess := &models.SigningSession{
		ID:         uuid.NewString(),
		Token:      token,
		DocumentID: doc.ID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		Page:       in.Page,
		PosX:       in.Rect.X,
		PosY:       in.Rect.Y,
		Width:      in.Rect.Width,
		Height:     in.Rect.Height,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Sessions().Create(ctx, sess); err != nil {
		return nil, err
	}
	slog.Info("session created", "sessionId", sess.ID, "documentId", doc.ID, "page", sess.Page)

	if sess.GuestEmail != "" {
		if err := s.mail.SendInvitation(ctx, sess.GuestEmail, sess.GuestName, s.PublicURL(sess)); err != nil {
			slog.Warn("invitation mail failed", "sessionId", sess.ID, "error", err)
		}
	}
	return sess, nil
}

// PublicURL is the guest-facing signing link for a session.
func (s *SigningService) PublicURL(sess *models.SigningSession) string {
	return s.baseURL + "/sign/" + sess.Token
}

func (s *SigningService) SessionByToken(ctx context.Context, token string) (*models.SigningSession, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	return s.store.Sessions().GetByToken(ctx, token)
}

func (s *SigningService) Session(ctx context.Context, id string) (*models.SigningSession, error) {
	return s.store.Sessions().Get(ctx, id)
}

func (s *SigningService) List(ctx context.Context) ([]models.SigningSession, error) {
	return s.store.Sessions().List(ctx)
}

// Sign stamps the guest's signature image onto the session's document at the
// stored placement and transitions the session to signed. Signing again while
// signed replaces the artifact; signing a completed session is forbidden.
func (s *SigningService) Sign(ctx context.Context, token, imagePayload string) (*models.SigningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Sessions().GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	imageData, err := decodeImagePayload(imagePayload)
	if err != nil {
		return nil, err
	}
	if sess.Status == models.StatusCompleted {
		return nil, models.ErrInvalidTransition
	}

	doc, source, err := s.DocumentContent(ctx, sess.DocumentID)
	if err != nil {
		return nil, err
	}
	rect := geometry.Rect{X: sess.PosX, Y: sess.PosY, Width: sess.Width, Height: sess.Height}
	stamped, err := s.stamper.Stamp(source, sess.Page, rect, imageData)
	if err != nil {
		return nil, err
	}

	// The artifact is published atomically before the record moves to
	// signed, so a signed session always has a readable artifact.
	signedPath, err := s.blobs.SaveSigned(sess.ID, stamped)
	if err != nil {
		return nil, &models.PersistenceError{Op: "signed artifact write", Err: err}
	}
	if err := sess.MarkSigned(signedPath, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.store.Sessions().Save(ctx, sess); err != nil {
		return nil, err
	}
	slog.Info("session signed", "sessionId", sess.ID, "documentId", doc.ID, "page", sess.Page)
	return sess, nil
}

// Confirm finishes a signed session. Any other starting state is invalid.
func (s *SigningService) Confirm(ctx context.Context, token string) (*models.SigningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Sessions().GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := sess.MarkCompleted(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.store.Sessions().Save(ctx, sess); err != nil {
		return nil, err
	}
	slog.Info("session completed", "sessionId", sess.ID)
	return sess, nil
}

// SignedContent loads a session's stamped artifact.
func (s *SigningService) SignedContent(ctx context.Context, sess *models.SigningSession) ([]byte, error) {
	if sess.SignedPath == nil {
		return nil, models.ErrNotFound
	}
	data, err := s.blobs.Read(*sess.SignedPath)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return data, nil
}

// Delete removes a session and the signed artifact it owns. The source
// document is shared between sessions and is left alone.
func (s *SigningService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Sessions().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Sessions().Delete(ctx, sess.ID); err != nil {
		return err
	}
	if sess.SignedPath != nil {
		if err := s.blobs.Remove(*sess.SignedPath); err != nil {
			return &models.PersistenceError{Op: "signed artifact delete", Err: err}
		}
	}
	slog.Info("session deleted", "sessionId", sess.ID)
	return nil
}

// TestStamp runs the calibration variant: a bordered rectangle outline
// stamped at the given placement, for visual verification of the coordinate
// mapping without a signature capture.
func (s *SigningService) TestStamp(ctx context.Context, documentID string, page int, rect geometry.Rect) ([]byte, error) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil, &models.ValidationError{Field: "rect", Reason: "width and height must be positive"}
	}
	_, source, err := s.DocumentContent(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.stamper.StampOutline(source, page, rect)
}

// decodeImagePayload accepts raw base64 or a canvas-style data URL
// (data:image/png;base64,...).
func decodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, &models.ValidationError{Field: "imageBase64", Reason: "missing signature image"}
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, &models.ValidationError{Field: "imageBase64", Reason: "malformed data URL"}
		}
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &models.ValidationError{Field: "imageBase64", Reason: "invalid base64 encoding"}
	}
	if len(data) == 0 {
		return nil, &models.ValidationError{Field: "imageBase64", Reason: "missing signature image"}
	}
	return data, nil
}

// newToken returns a 64 character hex token from a cryptographic source.
// Tokens are the only guest-facing identifier and must be unguessable.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
