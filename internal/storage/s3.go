package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores attachment blobs in a single S3 bucket with public-read
// URL addressing.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(client *s3.Client, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

func (s *S3Store) Upload(ctx context.Context, owner types.AttachmentOwner, ownerID, fileName, contentType string, body io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	key := s.objectKey(owner, ownerID, fileName)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &UploadResult{
		URL:      s.PublicURL(key),
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// Delete removes the blob behind a previously issued URL. S3 DeleteObject
// succeeds on missing keys, which gives us the idempotency the claim
// engine relies on when replaying orphan cleanup.
func (s *S3Store) Delete(ctx context.Context, blobURL string) error {
	key, err := s.ObjectKey(blobURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return utils.ErrorWrapOrNil(err, fmt.Sprintf("delete object %s", key))
}

func (s *S3Store) objectKey(owner types.AttachmentOwner, ownerID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s/%s%s", owner, ownerID, utils.NanoIDSize(21), ext)
}

// PublicURL builds the virtual-hosted-style URL for an object key.
func (s *S3Store) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ObjectKey recovers the object key from a URL issued by PublicURL.
func (s *S3Store) ObjectKey(blobURL string) (string, error) {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return "", fmt.Errorf("parse blob url %q: %w", blobURL, err)
	}

	expectedHost := fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
	if parsed.Host != expectedHost {
		return "", fmt.Errorf("blob url %q does not belong to bucket %s", blobURL, s.bucket)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("blob url %q has no object key", blobURL)
	}

	return key, nil
}
