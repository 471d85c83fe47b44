package output

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Config holds the connection settings for an S3 compatible object store
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS itself
	Region    string
	Bucket    string
	ACL       string // Canned ACL, e.g. "public-read"; empty for the bucket default
}

// Enabled reports whether enough is configured to attempt uploads
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// S3Uploader stores rendered images in a bucket
type S3Uploader struct {
	client s3iface.S3API
	bucket string
	acl    string
	logger core.Logger
}

// NewS3Uploader creates an uploader with static credentials and path-style addressing,
// which S3 compatible stores such as MinIO require
func NewS3Uploader(cfg S3Config, logger core.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		s3Config.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3UploaderWithClient(s3.New(sess), cfg, logger), nil
}

func newS3UploaderWithClient(client s3iface.S3API, cfg S3Config, logger core.Logger) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: cfg.Bucket,
		acl:    cfg.ACL,
		logger: logger,
	}
}

// Upload puts data under key
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if u.acl != "" {
		input.ACL = aws.String(u.acl)
	}

	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.bucket, size)
	}
	return nil
}
