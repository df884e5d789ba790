package document

import "testing"

func TestSlug(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Getting Started", "getting-started"},
		{"Hello, World!", "hello-world"},
		{"  Trimmed  ", "trimmed"},
		{"Version 2.0 Notes", "version-20-notes"},
		{"Café au lait", "cafe-au-lait"},
		{"ALL CAPS", "all-caps"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range testCases {
		if got := Slug(tc.input); got != tc.expected {
			t.Errorf("Slug(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
