// Package encryption protects source CSV files at rest with age.
//
// A Keyring is an X25519 key pair on disk: the recipient (public key) in
// plaintext, the identity (private key) wrapped with a passphrase using age's
// scrypt recipient. Anyone with the public key can encrypt exports; only a
// holder of the passphrase can unlock them for loading.
package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"fwm-go/internal/config"
)

// Extension is appended to encrypted file and object names.
const Extension = ".age"

// ErrNoKeys is returned when the key files have not been generated.
var ErrNoKeys = errors.New("encryption keys not found (run `fwm keys init`)")

// Keyring reads and writes an age key pair at fixed paths.
type Keyring struct {
	publicKeyPath  string
	privateKeyPath string

	// workFactor overrides the scrypt work factor when > 0.
	workFactor int
}

// NewKeyring creates a Keyring from configuration.
func NewKeyring(cfg config.EncryptionConfig) *Keyring {
	return &Keyring{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// WithWorkFactor returns a copy of k that wraps new private keys with the
// given scrypt work factor (log2 of the scrypt N parameter).
func (k *Keyring) WithWorkFactor(logN int) *Keyring {
	c := *k
	c.workFactor = logN
	return &c
}

// Exists reports whether both key files are present.
func (k *Keyring) Exists() bool {
	for _, p := range []string{k.publicKeyPath, k.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Generate creates a new key pair, overwriting existing key files.
func (k *Keyring) Generate(passphrase string) error {
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{k.publicKeyPath, k.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	if err := os.WriteFile(k.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	wrap, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if k.workFactor > 0 {
		wrap.SetWorkFactor(k.workFactor)
	}

	var sealed bytes.Buffer
	w, err := age.Encrypt(&sealed, wrap)
	if err != nil {
		return fmt.Errorf("wrapping private key: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return fmt.Errorf("wrapping private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("wrapping private key: %w", err)
	}

	if err := os.WriteFile(k.privateKeyPath, sealed.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	return nil
}

// Encrypt copies r to w encrypted to the stored public key.
func (k *Keyring) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := k.recipient()
	if err != nil {
		return err
	}

	ew, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(ew, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// EncryptFile writes path+Extension next to path and returns its name.
func (k *Keyring) EncryptFile(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	dst := path + Extension
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}

	if err := k.Encrypt(in, out); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("encrypting %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	return dst, nil
}

// Unlock unwraps the private key with passphrase.
func (k *Keyring) Unlock(passphrase string) (*Decrypter, error) {
	sealed, err := os.ReadFile(k.privateKeyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoKeys
	}
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	unwrap, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), unwrap)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}

	identities, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, errors.New("private key file holds no identity")
	}
	return &Decrypter{identity: identities[0]}, nil
}

func (k *Keyring) recipient() (age.Recipient, error) {
	data, err := os.ReadFile(k.publicKeyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoKeys
	}
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, errors.New("public key file holds no recipient")
	}
	return recipients[0], nil
}

// Decrypter holds an unlocked identity.
type Decrypter struct {
	identity age.Identity
}

// NewDecrypter wraps an identity that is already in memory.
func NewDecrypter(identity age.Identity) *Decrypter {
	return &Decrypter{identity: identity}
}

// Decrypt returns a reader over the plaintext of r.
func (d *Decrypter) Decrypt(r io.Reader) (io.Reader, error) {
	pr, err := age.Decrypt(r, d.identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return pr, nil
}
