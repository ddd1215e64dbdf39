package source

import (
	"context"
	"fmt"
	"io"

	"fwm-go/internal/fwm"
)

// Decrypter turns ciphertext into plaintext. *encryption.Decrypter implements it.
type Decrypter interface {
	Decrypt(r io.Reader) (io.Reader, error)
}

// DecryptingSource decrypts every table read from an inner source.
type DecryptingSource struct {
	inner     fwm.Source
	decrypter Decrypter
}

var _ fwm.Source = (*DecryptingSource)(nil)

func NewDecryptingSource(inner fwm.Source, decrypter Decrypter) *DecryptingSource {
	return &DecryptingSource{inner: inner, decrypter: decrypter}
}

func (s *DecryptingSource) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	rc, err := s.inner.Open(ctx, table)
	if err != nil {
		return nil, err
	}

	plain, err := s.decrypter.Decrypt(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("decrypting %s: %w", table, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{plain, rc}, nil
}

func (s *DecryptingSource) Describe(table string) string {
	return s.inner.Describe(table) + " (encrypted)"
}
