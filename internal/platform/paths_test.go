package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a/b/../c", filepath.Join("a", "c")},
		{"./x/", "x"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath("some/dir"); err != nil {
		t.Errorf("ValidatePath(some/dir) error = %v", err)
	}

	var pe *PathError
	if err := ValidatePath(""); !errors.As(err, &pe) {
		t.Errorf("ValidatePath(\"\") error = %v, want *PathError", err)
	}
	if err := ValidatePath("a\x00b"); !errors.As(err, &pe) {
		t.Errorf("ValidatePath(NUL) error = %v, want *PathError", err)
	}
	if pe.Error() != "invalid path 'a\x00b': path contains a NUL byte" {
		t.Errorf("Error() = %q", pe.Error())
	}
}
