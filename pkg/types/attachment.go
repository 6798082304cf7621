package types

import "time"

// Attachment is a stored evidence file linked to either a claim or a single
// claim item, never both. The blob lives in object storage and is addressed
// by URL; the database row is the authoritative record of its existence.
type Attachment struct {
	ID          string    `db:"id" json:"id"`
	ClaimID     *string   `db:"claim_id" json:"claimId"`
	ClaimItemID *string   `db:"claim_item_id" json:"claimItemId"`
	FileName    string    `db:"file_name" json:"fileName"`
	URL         string    `db:"url" json:"url"`
	FileSize    int64     `db:"file_size" json:"fileSize"`
	FileType    string    `db:"file_type" json:"fileType"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type AttachmentOwner string

const (
	AttachmentOwnerClaim AttachmentOwner = "claim"
	AttachmentOwnerItem  AttachmentOwner = "item"
)
