package crypto

import "testing"

func TestSealRoundTrip(t *testing.T) {
	sealer, err := NewSealer("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("sealer error: %v", err)
	}
	sealed, err := sealer.Seal("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("seal error: %v", err)
	}
	if string(sealed) == "JBSWY3DPEHPK3PXP" {
		t.Fatal("expected ciphertext to differ from plaintext")
	}
	opened, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if opened != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("expected original secret, got %q", opened)
	}
}

func TestSealerRejectsBadKeyLength(t *testing.T) {
	if _, err := NewSealer("short"); err == nil {
		t.Fatal("expected key length error")
	}
}

func TestDisabledSealer(t *testing.T) {
	sealer, err := NewSealer("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sealer.Enabled() {
		t.Fatal("expected disabled sealer")
	}
	if _, err := sealer.Seal("x"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	sealer, _ := NewSealer("0123456789abcdef0123456789abcdef")
	sealed, _ := sealer.Seal("secret")
	sealed[len(sealed)-1] ^= 0xff
	if _, err := sealer.Open(sealed); err == nil {
		t.Fatal("expected tampered ciphertext to fail")
	}
	if _, err := sealer.Open([]byte{1, 2}); err != ErrShortCipher {
		t.Fatalf("expected ErrShortCipher, got %v", err)
	}
}
