package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusDraft     ClaimStatus = "draft"
	ClaimStatusSubmitted ClaimStatus = "submitted"
	ClaimStatusApproved  ClaimStatus = "approved"
	ClaimStatusRejected  ClaimStatus = "rejected"
)

// KnownClaimStatus reports whether s is one of the four persisted statuses.
// Admin overrides validate against this before writing.
func KnownClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimStatusDraft, ClaimStatusSubmitted, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// Claim is the aggregate root over its items and attachments. TotalAmount is
// always the SGD sum of the current item set and is recomputed on every item
// mutation.
type Claim struct {
	ID          string          `db:"id" json:"id"`
	EmployeeID  string          `db:"employee_id" json:"employeeId"`
	Status      ClaimStatus     `db:"status" json:"status"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	AdminNotes  *string         `db:"admin_notes" json:"adminNotes"`
	ApprovedAt  *time.Time      `db:"approved_at" json:"approvedAt"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// ClaimItem is one dated, categorized, priced expense line. SGDAmount is
// derived as Amount * Rate at 2 decimal places.
type ClaimItem struct {
	ID         string          `db:"id" json:"id"`
	ClaimID    string          `db:"claim_id" json:"claimId"`
	EmployeeID string          `db:"employee_id" json:"employeeId"`
	Date       time.Time       `db:"expense_date" json:"date"`
	ItemTypeID string          `db:"item_type_id" json:"itemTypeId"`
	CurrencyID string          `db:"currency_id" json:"currencyId"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Rate       decimal.Decimal `db:"rate" json:"rate"`
	SGDAmount  decimal.Decimal `db:"sgd_amount" json:"sgdAmount"`
	Note       *string         `db:"note" json:"note"`
	Details    *string         `db:"details" json:"details"`
	EvidenceNo *string         `db:"evidence_no" json:"evidenceNo"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// RawItem is the loosely-typed line item as submitted by the form layer.
// Codes and dates are resolved and validated at the repository boundary on
// every call; malformed numeric strings are rejected, never coerced.
type RawItem struct {
	Date       string `form:"date" json:"date" validate:"required"`
	ItemType   string `form:"item_type" json:"itemType" validate:"required"`
	Currency   string `form:"currency" json:"currency" validate:"required"`
	Amount     string `form:"amount" json:"amount" validate:"required"`
	Rate       string `form:"rate" json:"rate" validate:"required"`
	Note       string `form:"note" json:"note"`
	Details    string `form:"details" json:"details"`
	EvidenceNo string `form:"evidence_no" json:"evidenceNo"`

	// Retain lists attachments the caller kept during an edit. Their blobs
	// are not re-uploaded; the rows are recreated against the new item id.
	Retain []RetainedAttachment `form:"retain" json:"retain"`
}

// RetainedAttachment identifies an existing uploaded file by name and URL.
type RetainedAttachment struct {
	FileName string `form:"file_name" json:"fileName"`
	URL      string `form:"url" json:"url"`
	FileSize int64  `form:"file_size" json:"fileSize"`
	FileType string `form:"file_type" json:"fileType"`
}

// Caller is the resolved identity performing an operation.
type Caller struct {
	EmployeeID string
	IsAdmin    bool
}

// ClaimUpdate is returned by create/update so the caller can upload new
// files against real generated item ids after the transaction commits.
type ClaimUpdate struct {
	Claim *Claim       `json:"claim"`
	Items []*ClaimItem `json:"items"`
}

// ClaimItemDetail is a line item joined with its resolved reference data
// and its evidence files.
type ClaimItemDetail struct {
	ClaimItem
	ItemTypeCode string `db:"item_type_code" json:"itemTypeCode"`
	ItemTypeName string `db:"item_type_name" json:"itemTypeName"`
	CurrencyCode string `db:"currency_code" json:"currencyCode"`

	Attachments []*Attachment `db:"-" json:"attachments"`
}

// ClaimDetail is the full read model for display and for read-before-write
// edit forms: claim, owner identity, items with reference data, and both
// claim-level and item-level attachments.
type ClaimDetail struct {
	Claim       *Claim             `json:"claim"`
	Owner       *Employee          `json:"owner"`
	Items       []*ClaimItemDetail `json:"items"`
	Attachments []*Attachment      `json:"attachments"`
}
