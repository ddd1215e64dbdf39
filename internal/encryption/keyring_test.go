package encryption

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"

	"fwm-go/internal/config"
)

// newTestKeyring uses a low scrypt work factor so tests stay fast.
func newTestKeyring(t *testing.T) *Keyring {
	t.Helper()
	dir := t.TempDir()
	cfg := config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "fwm.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "fwm.key"),
	}
	return NewKeyring(cfg).WithWorkFactor(10)
}

func TestKeyring_Exists(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)

	if k.Exists() {
		t.Error("Exists() = true before Generate, want false")
	}
	if err := k.Generate("secret"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !k.Exists() {
		t.Error("Exists() = false after Generate, want true")
	}
}

func TestKeyring_Generate_EmptyPassphrase(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)

	if err := k.Generate(""); err == nil {
		t.Error("Generate(\"\") expected error")
	}
}

func TestKeyring_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "csv", input: []byte("Provider_ID,Name\n1,Alpha\n")},
		{name: "empty", input: []byte{}},
		{name: "large", input: bytes.Repeat([]byte("1,Bread,10\n"), 20000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			k := newTestKeyring(t)
			if err := k.Generate("secret"); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			var sealed bytes.Buffer
			if err := k.Encrypt(bytes.NewReader(tt.input), &sealed); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(sealed.Bytes(), tt.input) {
				t.Error("ciphertext contains the plaintext")
			}

			d, err := k.Unlock("secret")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			r, err := d.Decrypt(&sealed)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("reading plaintext: %v", err)
			}
			if !bytes.Equal(got, tt.input) {
				t.Errorf("round trip returned %d bytes, want %d", len(got), len(tt.input))
			}
		})
	}
}

func TestKeyring_EncryptFile(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)
	if err := k.Generate("secret"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	src := filepath.Join(t.TempDir(), "claims_data.csv")
	if err := os.WriteFile(src, []byte("Claim_ID\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dst, err := k.EncryptFile(src)
	if err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}
	if dst != src+Extension {
		t.Errorf("EncryptFile() = %q, want %q", dst, src+Extension)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("opening %s: %v", dst, err)
	}
	defer f.Close()

	d, err := k.Unlock("secret")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	r, err := d.Decrypt(f)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != "Claim_ID\n1\n" {
		t.Errorf("decrypted = %q", got)
	}
}

func TestKeyring_UnlockWrongPassphrase(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)
	if err := k.Generate("correct"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := k.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase should return error")
	}
}

func TestKeyring_BeforeGenerate(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)

	var buf bytes.Buffer
	if err := k.Encrypt(bytes.NewReader([]byte("data")), &buf); !errors.Is(err, ErrNoKeys) {
		t.Errorf("Encrypt() error = %v, want ErrNoKeys", err)
	}
	if _, err := k.Unlock("secret"); !errors.Is(err, ErrNoKeys) {
		t.Errorf("Unlock() error = %v, want ErrNoKeys", err)
	}
}

func TestDecrypter_WrongIdentity(t *testing.T) {
	t.Parallel()
	k := newTestKeyring(t)
	if err := k.Generate("secret"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var sealed bytes.Buffer
	if err := k.Encrypt(bytes.NewReader([]byte("data")), &sealed); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	other, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDecrypter(other).Decrypt(&sealed); err == nil {
		t.Error("Decrypt() with another identity should return error")
	}
}
