package secretbox

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestRoundTrip(t *testing.T) {
	sealed, err := Encrypt(testKey(), "postgres://app:hunter2@db/todolist")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !strings.Contains(sealed, "|") {
		t.Fatalf("sealed value missing separator: %q", sealed)
	}

	got, err := Decrypt(testKey(), sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "postgres://app:hunter2@db/todolist" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestNoncesDiffer(t *testing.T) {
	a, _ := Encrypt(testKey(), "same")
	b, _ := Encrypt(testKey(), "same")
	if a == b {
		t.Fatal("two encryptions produced identical output")
	}
}

func TestWrongKeyFails(t *testing.T) {
	sealed, _ := Encrypt(testKey(), "secret")
	other := bytes.Repeat([]byte{0x43}, 32)
	if _, err := Decrypt(other, sealed); err == nil {
		t.Fatal("decrypt with wrong key succeeded")
	}
}

func TestMalformedCiphertext(t *testing.T) {
	for _, sealed := range []string{"", "no-separator", "!!!|!!!", "AAAA|zz"} {
		if _, err := Decrypt(testKey(), sealed); err == nil {
			t.Fatalf("Decrypt(%q) succeeded", sealed)
		}
	}
}

func TestParseKeyFormats(t *testing.T) {
	raw := testKey()

	for name, enc := range map[string]string{
		"base64":     base64.StdEncoding.EncodeToString(raw),
		"base64-raw": base64.RawStdEncoding.EncodeToString(raw),
		"hex":        hex.EncodeToString(raw),
		"raw":        string(raw),
	} {
		got, err := ParseKey(enc)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("%s: key mismatch", name)
		}
	}

	if _, err := ParseKey("too-short"); err == nil {
		t.Fatal("short key accepted")
	}
}
