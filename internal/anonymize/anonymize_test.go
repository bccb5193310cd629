package anonymize

import "testing"

func TestTokenDeterministic(t *testing.T) {
	first := Token("203.0.113.7", "salt")
	second := Token("203.0.113.7", "salt")

	if first != second {
		t.Fatalf("expected stable token, got %q then %q", first, second)
	}

	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
}

func TestTokenVariesByAddress(t *testing.T) {
	if Token("203.0.113.7", "salt") == Token("203.0.113.8", "salt") {
		t.Fatal("different addresses must not collide")
	}
}

func TestTokenVariesBySalt(t *testing.T) {
	if Token("203.0.113.7", "salt-a") == Token("203.0.113.7", "salt-b") {
		t.Fatal("different salts must produce different tokens")
	}
}
