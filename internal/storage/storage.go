// Package storage is the attachment blob store behind the claim engine.
//
// Blobs are addressed by URL and live outside the database transaction
// boundary. Upload failures are fatal to the surrounding operation; delete
// failures are best-effort because the database row is the authoritative
// record of what exists.
package storage

import (
	"context"
	"io"

	"claimdesk/pkg/types"
)

type UploadResult struct {
	URL      string
	Size     int64
	MimeType string
}

// Store is implemented by the S3 adapter and by the in-memory fake used in
// tests. Delete is idempotent: removing a missing object is not an error.
type Store interface {
	Upload(ctx context.Context, owner types.AttachmentOwner, ownerID, fileName, contentType string, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, url string) error
}
