package source

import (
	"context"
	"fmt"

	"fwm-go/internal/config"
	"fwm-go/internal/encryption"
	"fwm-go/internal/fwm"
)

// NewSourceFromConfig creates the Source selected by cfg.Type. Encrypted
// sources read <file name>.age and need a non-nil decrypter.
func NewSourceFromConfig(ctx context.Context, cfg config.SourceConfig, decrypter Decrypter) (fwm.Source, error) {
	files := cfg.Files
	if cfg.Encrypted {
		if decrypter == nil {
			return nil, fmt.Errorf("encrypted source requires unlocked keys")
		}
		files = WithExtension(files, encryption.Extension)
	}

	var src fwm.Source
	switch cfg.Type {
	case "memory":
		src = NewMemorySource()
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem source requires dir to be set")
		}
		fs, err := NewFileSystemSource(cfg.Dir, files)
		if err != nil {
			return nil, err
		}
		src = fs
	case "s3":
		s3src, err := NewS3Source(ctx, config.SourceConfig{
			S3Bucket:    cfg.S3Bucket,
			S3Prefix:    cfg.S3Prefix,
			S3Region:    cfg.S3Region,
			S3Endpoint:  cfg.S3Endpoint,
			S3PathStyle: cfg.S3PathStyle,
			Files:       files,
		})
		if err != nil {
			return nil, err
		}
		src = s3src
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}

	if cfg.Encrypted {
		return NewDecryptingSource(src, decrypter), nil
	}
	return src, nil
}

// WithExtension appends ext to every file name.
func WithExtension(files config.SourceFiles, ext string) config.SourceFiles {
	return config.SourceFiles{
		Providers: files.Providers + ext,
		Receivers: files.Receivers + ext,
		Listings:  files.Listings + ext,
		Claims:    files.Claims + ext,
	}
}
