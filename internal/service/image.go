package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/familyrecipes/backend/config"
	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/logging"
)

// MaxImageSize is the largest recipe image accepted for upload.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type s3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads recipe images to a public S3 bucket.
type S3ImageStore struct {
	client s3Putter
	bucket string
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{client: cfg.Client, bucket: cfg.BucketName}
}

// Upload stores the image under recipes/<user>/<uuid><ext> and returns its
// public URL.
func (s *S3ImageStore) Upload(ctx context.Context, userID int64, filename, contentType string, body io.Reader, size int64) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", apperror.Validation("image", "Image must be a JPEG, PNG or WebP file")
	}
	if size <= 0 || size > MaxImageSize {
		return "", apperror.Validation("image", fmt.Sprintf("Image must be at most %d bytes", MaxImageSize))
	}

	key := path.Join("recipes", fmt.Sprint(userID), uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", apperror.Upstream("Failed to store image", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	logging.Ctx(ctx).Info().Str("key", key).Str("original", filename).Msg("uploaded recipe image")
	return url, nil
}
