package handlers

import "testing"

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"contract.pdf", "contract.pdf"},
		{`ev"il.pdf`, "evil.pdf"},
		{"line\r\nbreak.pdf", "linebreak.pdf"},
		{"/tmp/up/loaded.pdf", "loaded.pdf"},
		{`C:\Users\guest\doc.pdf`, "doc.pdf"},
		{"", "document.pdf"},
		{"\r\n", "document.pdf"},
		{"..", "document.pdf"},
		{"  spaced.pdf  ", "spaced.pdf"},
	}
	for _, tc := range cases {
		if got := safeFilename(tc.in); got != tc.want {
			t.Errorf("safeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
