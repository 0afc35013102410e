package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestLevelParsing(t *testing.T) {
	cases := []struct {
		level       string
		infoEnabled bool
	}{
		{"", true},
		{"info", true},
		{"warn", false},
		{"error", false},
		{"debug", true},
		{"nonsense", true},
	}
	for _, tc := range cases {
		logger := NewLogger(Config{ServiceName: "parapheur", Level: tc.level})
		got := logger.Handler().Enabled(context.Background(), slog.LevelInfo)
		if got != tc.infoEnabled {
			t.Errorf("level %q: info enabled = %v, want %v", tc.level, got, tc.infoEnabled)
		}
	}
}
