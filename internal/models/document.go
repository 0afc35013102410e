package models

import "time"

// Document is an uploaded source PDF. Multiple signing sessions may reference
// the same document; deleting a session never removes it.
type Document struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string // original upload filename
	Path      string `gorm:"not null"` // blob path, relative to the data dir
	Size      int64
	PageCount int `gorm:"not null"`
	CreatedAt time.Time
}
