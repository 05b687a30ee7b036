package tokens

import "testing"

func TestGenerateOpaqueToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		tok, err := GenerateOpaqueToken(32)
		if err != nil {
			t.Fatalf("GenerateOpaqueToken: %v", err)
		}
		if len(tok) < 40 {
			t.Fatalf("token too short: %q", tok)
		}
		if seen[tok] {
			t.Fatal("duplicate token")
		}
		seen[tok] = true
	}
}

func TestSHA256Base64URLIsStable(t *testing.T) {
	a := SHA256Base64URL("secret")
	b := SHA256Base64URL("secret")
	if a != b {
		t.Fatalf("hash not deterministic: %q vs %q", a, b)
	}
	if a == SHA256Base64URL("secret2") {
		t.Fatal("distinct inputs collided")
	}
}
