// Package storage keeps PDF blobs on disk under a single data directory:
// uploaded sources under documents/, stamped artifacts under signed/.
// Paths handed back to callers are relative to the data dir, so records stay
// valid if the directory is relocated.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirDocuments = "documents"
	dirSigned    = "signed"
)

type Store struct {
	root string
}

func New(root string) (*Store, error) {
	for _, sub := range []string{dirDocuments, dirSigned} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("prepare data dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// SaveDocument stores an uploaded source PDF and returns its relative path.
func (s *Store) SaveDocument(id string, data []byte) (string, error) {
	return s.save(filepath.Join(dirDocuments, id+".pdf"), data)
}

// SaveSigned stores a stamped artifact for a session, replacing any previous
// one, and returns its relative path.
func (s *Store) SaveSigned(sessionID string, data []byte) (string, error) {
	return s.save(filepath.Join(dirSigned, sessionID+".pdf"), data)
}

// save writes to a temp file in the destination directory and renames it into
// place, so readers never observe a partially written blob and a failed write
// leaves any existing artifact untouched.
func (s *Store) save(rel string, data []byte) (string, error) {
	abs := filepath.Join(s.root, rel)
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publish blob: %w", err)
	}
	return rel, nil
}

// Read returns the full contents of a blob by its relative path.
func (s *Store) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", rel, err)
	}
	return data, nil
}

// Exists reports whether a blob is present.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.root, rel))
	return err == nil
}

// Remove deletes a blob. Removing an absent blob is not an error.
func (s *Store) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", rel, err)
	}
	return nil
}
