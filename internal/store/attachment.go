package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"claimdesk/internal/policy"
	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// AttachToClaim uploads a new evidence file and links it to the claim
// itself. An upload failure is fatal: the caller must be told their file
// did not attach. If the row insert fails after a successful upload, the
// blob is deleted as compensation.
func (r *ClaimRepository) AttachToClaim(ctx context.Context, claimID string, caller types.Caller, fileName, contentType string, body io.Reader) (*types.Attachment, error) {

	claim, err := r.Claim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanEdit(claim, caller); err != nil {
		return nil, err
	}

	upload, err := r.blobs.Upload(ctx, types.AttachmentOwnerClaim, claim.ID, fileName, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	attachment, err := r.insertAttachment(ctx, &types.Attachment{
		ClaimID:  &claim.ID,
		FileName: fileName,
		URL:      upload.URL,
		FileSize: upload.Size,
		FileType: upload.MimeType,
	})
	if err != nil {
		r.deleteBlobs(ctx, claim.ID, []string{upload.URL})
		return nil, err
	}

	return attachment, nil
}

// AttachToItem uploads a new evidence file and links it to a single claim
// item, typically right after create/update returned the generated item ids.
func (r *ClaimRepository) AttachToItem(ctx context.Context, itemID string, caller types.Caller, fileName, contentType string, body io.Reader) (*types.Attachment, error) {

	item, err := r.claimItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	claim, err := r.Claim(ctx, item.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanEdit(claim, caller); err != nil {
		return nil, err
	}

	upload, err := r.blobs.Upload(ctx, types.AttachmentOwnerItem, item.ID, fileName, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	attachment, err := r.insertAttachment(ctx, &types.Attachment{
		ClaimItemID: &item.ID,
		FileName:    fileName,
		URL:         upload.URL,
		FileSize:    upload.Size,
		FileType:    upload.MimeType,
	})
	if err != nil {
		r.deleteBlobs(ctx, claim.ID, []string{upload.URL})
		return nil, err
	}

	return attachment, nil
}

// RemoveAttachment deletes a single evidence file: the row inside the
// database, then the blob best-effort.
func (r *ClaimRepository) RemoveAttachment(ctx context.Context, attachmentID string, caller types.Caller) error {

	attachment, err := r.attachment(ctx, attachmentID)
	if err != nil {
		return err
	}

	claimID := ""
	switch {
	case attachment.ClaimID != nil:
		claimID = *attachment.ClaimID
	case attachment.ClaimItemID != nil:
		item, err := r.claimItem(ctx, *attachment.ClaimItemID)
		if err != nil {
			return err
		}
		claimID = item.ClaimID
	default:
		return types.ErrClaimNotFound
	}

	claim, err := r.Claim(ctx, claimID)
	if err != nil {
		return err
	}

	if err := policy.CanEdit(claim, caller); err != nil {
		return err
	}

	query, args, err := psql().Delete(attachmentTableName).Where(sq.Eq{"id": attachmentID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete attachment query: %w", err)
	}

	if _, err = r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	r.deleteBlobs(ctx, claimID, []string{attachment.URL})

	return nil
}

func (r *ClaimRepository) insertAttachment(ctx context.Context, attachment *types.Attachment) (*types.Attachment, error) {

	now := time.Now()
	attachment.ID = utils.NanoID()
	attachment.CreatedAt = now
	attachment.UpdatedAt = now

	query, args, err := psql().Insert(attachmentTableName).
		SetMap(utils.StructToMap(attachment)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert attachment query: %w", err)
	}

	if _, err = r.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert attachment: %w", err)
	}

	return attachment, nil
}

func (r *ClaimRepository) attachment(ctx context.Context, attachmentID string) (*types.Attachment, error) {

	query, args, err := psql().Select(attachmentColumns...).From(attachmentTableName).
		Where(sq.Eq{"id": attachmentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachment query: %w", err)
	}

	var attachment types.Attachment
	err = pgxscan.Get(ctx, r.pool, &attachment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}

	return &attachment, nil
}

func (r *ClaimRepository) claimItem(ctx context.Context, itemID string) (*types.ClaimItem, error) {

	query, args, err := psql().Select(claimItemColumns...).From(claimItemTableName).
		Where(sq.Eq{"id": itemID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim item query: %w", err)
	}

	var item types.ClaimItem
	err = pgxscan.Get(ctx, r.pool, &item, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim item: %w", err)
	}

	return &item, nil
}
