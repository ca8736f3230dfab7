// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/javajoker/kk-storefront/internal/config"
)

const defaultMaxUploadSize = 5 << 20

// Allowed image types and the extension stored for each.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	upload   config.UploadConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// NewStorageService stores uploads in S3 when AWS credentials are set and
// in the local upload directory otherwise.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{aws: cfg.AWS, upload: cfg.Upload}
	if s.upload.MaxSize <= 0 {
		s.upload.MaxSize = defaultMaxUploadSize
	}

	if cfg.AWS.AccessKeyID == "" || cfg.AWS.S3Bucket == "" {
		if err := os.MkdirAll(s.upload.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

// IsLocal reports whether files are written to the upload directory and
// must be served by this process.
func (s *StorageService) IsLocal() bool {
	return s.s3Client == nil
}

func (s *StorageService) MaxSize() int64 {
	return s.upload.MaxSize
}

// UploadImage checks size and sniffed content type, then stores the image
// under a random name.
func (s *StorageService) UploadImage(ctx context.Context, r io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.upload.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.upload.MaxSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrUnsupportedFileType
	}

	mimeType := mimetype.Detect(data).String()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}

	key := uuid.NewString() + ext
	if !s.IsLocal() {
		return s.uploadToS3(ctx, data, key, mimeType)
	}
	return s.uploadToLocal(data, key, mimeType)
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	if err := os.WriteFile(filepath.Join(s.upload.Dir, key), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      path.Join("/", s.upload.PublicPath, key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	key = filepath.Base(key)
	if s.IsLocal() {
		if err := os.Remove(filepath.Join(s.upload.Dir, key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.aws.S3Bucket, s.aws.Region, key)
}
