package utils

import (
	"strings"
	"testing"
)

func TestGenerateRandomString(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := GenerateRandomString(10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s) != 10 {
			t.Fatalf("expected length 10, got %d", len(s))
		}
		for _, ch := range s {
			if !strings.ContainsRune(codeChars, ch) {
				t.Fatalf("character %q outside the code alphabet", ch)
			}
		}
		if seen[s] {
			t.Fatalf("generated duplicate string %q in 50 draws", s)
		}
		seen[s] = true
	}
}

func TestGenerateRandomStringRejectsBadLength(t *testing.T) {
	if _, err := GenerateRandomString(0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := GenerateRandomString(-3); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("0b9fd9a2-4c2a-4be6-9a13-ffb24b2a9cbd") {
		t.Fatal("expected valid uuid to pass")
	}
	if IsValidUUID("not-a-uuid") {
		t.Fatal("expected malformed uuid to fail")
	}
	if IsValidUUID("") {
		t.Fatal("expected empty string to fail")
	}
}
