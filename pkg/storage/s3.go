package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	pkglogger "github.com/caddystats/content-backend/pkg/logger"
	"github.com/caddystats/content-backend/pkg/slug"
)

// S3Config holds S3-compatible storage configuration. Endpoint and
// ForcePathStyle make the client work against R2 and MinIO as well.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool
}

// S3Client stores media objects in an S3-compatible bucket
type S3Client struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	cdnURL   string
	basePath string
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return &S3Client{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		cdnURL:   strings.TrimRight(cfg.CDNURL, "/"),
		basePath: strings.Trim(cfg.BasePath, "/"),
	}, nil
}

// UploadResult describes where an uploaded object ended up
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	CDNURL      string `json:"cdn_url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload writes an object under the configured base path
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	objectKey := c.objectKey(key)
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", objectKey, err)
	}

	result := &UploadResult{
		Key:         objectKey,
		URL:         c.objectURL(objectKey),
		ContentType: contentType,
		Size:        size,
	}
	if c.cdnURL != "" {
		result.CDNURL = c.cdnURL + "/" + objectKey
	}
	return result, nil
}

// Delete removes an object. The key must be the full key returned by Upload.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// GetPresignedURL returns a time-limited direct download link
func (c *S3Client) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	out, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return out.URL, nil
}

func (c *S3Client) objectKey(key string) string {
	if c.basePath == "" {
		return key
	}
	return c.basePath + "/" + key
}

func (c *S3Client) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key)
}

// GenerateKey builds a collision-free storage key. The original file
// name is slugified so keys stay URL-safe regardless of what clients
// send, and a random suffix keeps same-named uploads apart.
func GenerateKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := slug.Make(strings.TrimSuffix(fileName, ext))
	if base == "" {
		base = "file"
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s-%s%s",
		prefix, now.Year(), now.Month(), base, uuid.NewString()[:8], ext)
}
