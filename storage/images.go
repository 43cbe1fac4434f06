// Package storage keeps uploaded images in the R2 bucket. Clients upload
// directly with presigned URLs; the API only signs, checks and deletes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/sabelo-news/api-go/config"
)

const (
	KindNews   = "news"
	KindAd     = "ad"
	KindAvatar = "avatar"

	PresignExpiry = time.Hour
)

var (
	ErrInvalidKind        = errors.New("invalid image kind")
	ErrInvalidContentType = errors.New("only jpeg, png, webp and gif images are allowed")
	ErrTooLarge           = errors.New("file size exceeds limit")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var sizeLimits = map[string]int64{
	KindNews:   10 * 1024 * 1024,
	KindAd:     10 * 1024 * 1024,
	KindAvatar: 5 * 1024 * 1024,
}

// ValidateImage checks an upload request before a URL is signed for it.
func ValidateImage(kind, contentType string, size int64) error {
	limit, ok := sizeLimits[kind]
	if !ok {
		return ErrInvalidKind
	}
	if !imageTypes[strings.ToLower(contentType)] {
		return ErrInvalidContentType
	}
	if size <= 0 || size > limit {
		return ErrTooLarge
	}
	return nil
}

// Key builds uploads/{kind}/{userID}/{unix}_{uuid}{ext}.
func Key(kind, userID, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("uploads/%s/%s/%d_%s%s", kind, userID, now.Unix(), uuid.New().String(), ext)
}

// OwnedBy reports whether key was issued to userID by Key.
func OwnedBy(key, userID string) bool {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != "uploads" {
		return false
	}
	return userID != "" && parts[2] == userID
}

type Images struct {
	Client    *s3.Client
	Bucket    string
	PublicURL string
}

func NewImages(cfg *config.R2Config) *Images {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})

	return &Images{
		Client:    client,
		Bucket:    cfg.BucketName,
		PublicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

func (i *Images) URL(key string) string {
	return fmt.Sprintf("%s/%s", i.PublicURL, key)
}

func (i *Images) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(i.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(i.Client)
	req, err := presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (i *Images) Exists(ctx context.Context, key string) (bool, error) {
	_, err := i.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(i.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}

func (i *Images) Delete(ctx context.Context, key string) error {
	_, err := i.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(i.Bucket),
		Key:    aws.String(key),
	})
	return err
}
