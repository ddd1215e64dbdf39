package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fwm-go/internal/config"
	"fwm-go/internal/encryption"
	"fwm-go/internal/fwm"
	"fwm-go/internal/source"
)

// uploader stores table content at a remote source.
type uploader interface {
	Upload(ctx context.Context, table string, r io.Reader) error
	Describe(table string) string
}

// PushSources uploads the four CSV tables found in dir to the configured S3
// source, encrypting them to the public key first when the source is
// encrypted. It returns the object locations written.
func PushSources(ctx context.Context, cfg *config.Config, dir string) ([]string, error) {
	if cfg.Source.Type != "s3" {
		return nil, fmt.Errorf("push requires an s3 source, configured type is %q", cfg.Source.Type)
	}

	remote := cfg.Source
	var keyring *encryption.Keyring
	if remote.Encrypted {
		keyring = encryption.NewKeyring(cfg.Encryption)
		remote.Files = source.WithExtension(remote.Files, encryption.Extension)
	}

	s3src, err := source.NewS3Source(ctx, remote)
	if err != nil {
		return nil, fmt.Errorf("creating s3 source: %w", err)
	}
	return pushTables(ctx, s3src, dir, cfg.Source.Files, keyring)
}

// pushTables reads dir/<file> for every table and uploads it. Every file is
// read (and encrypted) before the first upload, so a missing file uploads nothing.
func pushTables(ctx context.Context, up uploader, dir string, files config.SourceFiles, keyring *encryption.Keyring) ([]string, error) {
	payloads := make(map[string][]byte, len(fwm.Tables))
	for _, table := range fwm.Tables {
		path := filepath.Join(dir, files.ForTable(table))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", table, err)
		}

		if keyring != nil {
			var sealed bytes.Buffer
			if err := keyring.Encrypt(bytes.NewReader(data), &sealed); err != nil {
				return nil, fmt.Errorf("encrypting %s: %w", path, err)
			}
			data = sealed.Bytes()
		}
		payloads[table] = data
	}

	var written []string
	for _, table := range fwm.Tables {
		if err := up.Upload(ctx, table, bytes.NewReader(payloads[table])); err != nil {
			return written, err
		}
		written = append(written, up.Describe(table))
	}
	return written, nil
}
