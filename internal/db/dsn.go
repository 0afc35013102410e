package db

import "strings"

// NormalizeDSN trims quotes and whitespace from a configured DSN. Postgres
// URLs pass through untouched; anything else is handed to the sqlite driver
// as a file path or file: URI.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	return s
}
