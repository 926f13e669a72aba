package util

import "testing"

func TestTruncate_Short(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Truncate() = %q, want %q", got, "hello")
	}
}

func TestTruncate_ExactLimit(t *testing.T) {
	if got := Truncate("12345", 5); got != "12345" {
		t.Errorf("Truncate() = %q, want %q", got, "12345")
	}
}

func TestTruncate_Long(t *testing.T) {
	if got := Truncate("1234567890", 4); got != "1234" {
		t.Errorf("Truncate() = %q, want %q", got, "1234")
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// multibyte runes must not be split
	if got := Truncate("départ", 3); got != "dép" {
		t.Errorf("Truncate() = %q, want %q", got, "dép")
	}
}

func TestTruncate_ZeroMax(t *testing.T) {
	if got := Truncate("anything", 0); got != "" {
		t.Errorf("Truncate() = %q, want empty", got)
	}
}
