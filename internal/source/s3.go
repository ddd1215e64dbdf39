package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fwm-go/internal/config"
	"fwm-go/internal/fwm"
)

// S3Source reads tables from objects <prefix>/<file name> in one bucket.
// It works against AWS S3 and S3-compatible stores such as MinIO.
type S3Source struct {
	client     *s3.Client
	downloader *manager.Downloader
	uploader   *manager.Uploader
	bucket     string
	prefix     string
	files      config.SourceFiles
}

var _ fwm.Source = (*S3Source)(nil)

// NewS3Source builds a client from the default AWS credential chain, with the
// region, endpoint and addressing style taken from cfg.
func NewS3Source(ctx context.Context, cfg config.SourceConfig) (*S3Source, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})
	return NewS3SourceFromClient(client, cfg.S3Bucket, cfg.S3Prefix, cfg.Files), nil
}

// NewS3SourceFromClient wraps an existing client.
func NewS3SourceFromClient(client *s3.Client, bucket, prefix string, files config.SourceFiles) *S3Source {
	return &S3Source{
		client:     client,
		downloader: manager.NewDownloader(client),
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		prefix:     prefix,
		files:      files,
	}
}

func (s *S3Source) key(table string) (string, error) {
	name := s.files.ForTable(table)
	if name == "" {
		return "", fmt.Errorf("no object configured for table %q", table)
	}
	return path.Join(s.prefix, name), nil
}

// Open downloads the whole object into memory. Tables are small enough that
// buffering is simpler than holding a response body across the decode.
func (s *S3Source) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	key, err := s.key(table)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("downloading s3://%s/%s: %w", s.bucket, key, err)
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

// Upload stores r as the object for table, replacing any previous version.
func (s *S3Source) Upload(ctx context.Context, table string, r io.Reader) error {
	key, err := s.key(table)
	if err != nil {
		return err
	}

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String("text/csv"),
	}); err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3Source) Describe(table string) string {
	key, _ := s.key(table)
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
