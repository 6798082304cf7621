package storage_test

import (
	"context"
	"strings"
	"testing"

	"claimdesk/internal/storage"
	"claimdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3StoreURLKeyRoundTrip(t *testing.T) {
	s := storage.NewS3Store(nil, "claim-attachments", "ap-southeast-1")

	url := s.PublicURL("item/itm-1/abc123.pdf")
	assert.Equal(t, "https://claim-attachments.s3.ap-southeast-1.amazonaws.com/item/itm-1/abc123.pdf", url)

	key, err := s.ObjectKey(url)
	require.NoError(t, err)
	assert.Equal(t, "item/itm-1/abc123.pdf", key)
}

func TestS3StoreObjectKeyRejectsForeignURL(t *testing.T) {
	s := storage.NewS3Store(nil, "claim-attachments", "ap-southeast-1")

	_, err := s.ObjectKey("https://other-bucket.s3.ap-southeast-1.amazonaws.com/key")
	assert.Error(t, err)

	_, err = s.ObjectKey("https://claim-attachments.s3.ap-southeast-1.amazonaws.com/")
	assert.Error(t, err)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	res, err := s.Upload(ctx, types.AttachmentOwnerItem, "itm-1", "receipt.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.True(t, s.Has(res.URL))
	assert.Equal(t, int64(len("pdf-bytes")), res.Size)

	require.NoError(t, s.Delete(ctx, res.URL))
	assert.False(t, s.Has(res.URL))

	// deleting the same URL again must not fail
	require.NoError(t, s.Delete(ctx, res.URL))
	assert.Equal(t, 2, s.Deletes)
}
