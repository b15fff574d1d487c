package tuya

import (
	"bytes"
	"crypto/aes"
	"testing"
)

func TestPKCS7RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("hi")},
		{"one below block", bytes.Repeat([]byte{0xAB}, aes.BlockSize-1)},
		{"exact block", bytes.Repeat([]byte{0xCD}, aes.BlockSize)},
		{"multi block", bytes.Repeat([]byte{0xEF}, aes.BlockSize*2+5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded := pkcs7Pad(tt.data)
			if len(padded)%aes.BlockSize != 0 {
				t.Fatalf("padded length %d is not a block multiple", len(padded))
			}
			// Padding is always added, even on block-aligned input.
			if len(padded) == len(tt.data) {
				t.Fatal("padding must always extend the input")
			}

			got, err := pkcs7Unpad(padded)
			if err != nil {
				t.Fatalf("pkcs7Unpad() error = %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("round trip = %v, want %v", got, tt.data)
			}
		})
	}
}

func TestPKCS7Unpad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"not block aligned", []byte{1, 2, 3}},
		{"zero padding byte", append(bytes.Repeat([]byte{0}, aes.BlockSize-1), 0)},
		{"padding too large", append(bytes.Repeat([]byte{0}, aes.BlockSize-1), 17)},
		{"inconsistent padding", append(bytes.Repeat([]byte{9}, aes.BlockSize-1), 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := pkcs7Unpad(tt.data); err == nil {
				t.Error("pkcs7Unpad() expected error, got nil")
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef")
	plaintext := []byte(`{"devId":"x","dps":{"1":true}}`)

	ciphertext, err := encryptPayload(key, plaintext)
	if err != nil {
		t.Fatalf("encryptPayload() error = %v", err)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		t.Errorf("ciphertext length %d is not a block multiple", len(ciphertext))
	}
	if bytes.Contains(ciphertext, []byte("devId")) {
		t.Error("ciphertext leaks plaintext")
	}

	got, err := decryptPayload(key, ciphertext)
	if err != nil {
		t.Fatalf("decryptPayload() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip = %q, want %q", got, plaintext)
	}
}

func TestDecryptPayload_BadInput(t *testing.T) {
	key := []byte("0123456789abcdef")

	if _, err := decryptPayload(key, []byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-block-aligned ciphertext")
	}
	if _, err := decryptPayload(key, nil); err == nil {
		t.Error("expected error for empty ciphertext")
	}
	if _, err := encryptPayload([]byte("short"), []byte("x")); err == nil {
		t.Error("expected error for invalid key size")
	}
}

func TestVersionHeader(t *testing.T) {
	if len(versionHeader) != 15 {
		t.Errorf("versionHeader length = %d, want 15", len(versionHeader))
	}
	if !bytes.HasPrefix(versionHeader, []byte("3.3")) {
		t.Errorf("versionHeader = %v, want 3.3 prefix", versionHeader)
	}
}
