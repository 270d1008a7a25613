package phone

import "testing"

func TestNormalizeE164BrazilianMobile(t *testing.T) {
	got := NormalizeE164("(11) 98765-4321")
	if got != "+5511987654321" {
		t.Fatalf("expected +5511987654321, got %q", got)
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	got := NormalizeE164("  not a phone ")
	if got != "not a phone" {
		t.Fatalf("expected trimmed input, got %q", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+55 (11) 98765-4321"); got != "5511987654321" {
		t.Fatalf("expected digits only, got %q", got)
	}
}
