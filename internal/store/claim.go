package store

import (
	"context"
	"fmt"
	"time"

	"claimdesk/internal/policy"
	"claimdesk/internal/storage"
	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	claimTableName      = "claimdesk.claims"
	claimItemTableName  = "claimdesk.claim_items"
	attachmentTableName = "claimdesk.attachments"
)

var (
	claimColumns      = utils.StructTagValues(types.Claim{})
	claimItemColumns  = utils.StructTagValues(types.ClaimItem{})
	attachmentColumns = utils.StructTagValues(types.Attachment{})
)

// ClaimRepository mutates the claim aggregate. Every public operation runs
// as one database transaction; blob-store calls happen outside the
// transaction boundary and are compensated, never rolled back.
type ClaimRepository struct {
	pool    *pgxpool.Pool
	refdata *ReferenceRepository
	blobs   storage.Store
	logger  *logrus.Logger
}

func NewClaimRepository(pool *pgxpool.Pool, refdata *ReferenceRepository, blobs storage.Store, logger *logrus.Logger) *ClaimRepository {
	return &ClaimRepository{pool: pool, refdata: refdata, blobs: blobs, logger: logger}
}

func (r *ClaimRepository) Claim(ctx context.Context, claimID string) (*types.Claim, error) {

	query, args, err := psql().Select(claimColumns...).From(claimTableName).
		Where(sq.Eq{"id": claimID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim query: %w", err)
	}

	var claim types.Claim
	err = pgxscan.Get(ctx, r.pool, &claim, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim: %w", err)
	}

	return &claim, nil
}

// CreateClaim resolves, prices, and persists a new claim with its full item
// set in one transaction. It returns the generated claim and item rows so
// the caller can upload files against real item ids afterwards.
func (r *ClaimRepository) CreateClaim(ctx context.Context, employeeID string, rawItems []types.RawItem, status types.ClaimStatus) (*types.ClaimUpdate, error) {

	if status != types.ClaimStatusDraft && status != types.ClaimStatusSubmitted {
		return nil, &types.ValidationError{Field: "status", Reason: "new claims must be draft or submitted"}
	}

	lookup, err := r.refdata.Lookup(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claimID := utils.NanoID()

	items, total, err := buildClaimItems(lookup, claimID, employeeID, rawItems, now, now)
	if err != nil {
		return nil, err
	}

	claim := &types.Claim{
		ID:          claimID,
		EmployeeID:  employeeID,
		Status:      status,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args, err := psql().Insert(claimTableName).SetMap(utils.StructToMap(claim)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert claim query: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert claim: %w", err)
	}

	if err := insertClaimItems(ctx, tx, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &types.ClaimUpdate{Claim: claim, Items: items}, nil
}

// UpdateClaim replaces the claim's entire item set: delete all, reinsert
// all, in one transaction. Attachments tied to the deleted items are
// removed; those the caller retained are recreated against the new item
// ids without touching their blobs. Orphaned blobs are deleted best-effort
// after the transaction commits.
func (r *ClaimRepository) UpdateClaim(ctx context.Context, claimID string, caller types.Caller, rawItems []types.RawItem) (*types.ClaimUpdate, error) {

	claim, err := r.Claim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanEdit(claim, caller); err != nil {
		return nil, err
	}

	lookup, err := r.refdata.Lookup(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	items, total, err := buildClaimItems(lookup, claimID, claim.EmployeeID, rawItems, now, now)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	claim.TotalAmount = total
	claim.UpdatedAt = now

	query, args, err := psql().Update(claimTableName).
		SetMap(map[string]any{"total_amount": total, "updated_at": now}).
		Where(sq.Eq{"id": claimID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update claim query: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}

	oldItemIDs, err := claimItemIDs(ctx, tx, claimID)
	if err != nil {
		return nil, err
	}

	existing, err := attachmentsByItemIDs(ctx, tx, oldItemIDs)
	if err != nil {
		return nil, err
	}

	// Old attachments go first, then old items, then the new item set.
	// Deletion strictly precedes re-insertion.
	if len(oldItemIDs) > 0 {
		query, args, err = psql().Delete(attachmentTableName).
			Where(sq.Eq{"claim_item_id": oldItemIDs}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to generate delete attachments query: %w", err)
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to delete item attachments: %w", err)
		}
	}

	query, args, err = psql().Delete(claimItemTableName).Where(sq.Eq{"claim_id": claimID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete items query: %w", err)
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to delete claim items: %w", err)
	}

	if err := insertClaimItems(ctx, tx, items); err != nil {
		return nil, err
	}

	plan := buildReplacementPlan(existing, items, rawItems, now)

	if err := insertAttachments(ctx, tx, plan.relinked); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The rows are gone; dangling blobs are a recoverable leak, so failures
	// here are logged and swallowed.
	r.deleteBlobs(ctx, claimID, plan.orphanURLs)

	return &types.ClaimUpdate{Claim: claim, Items: items}, nil
}

// UpdateClaimStatus applies a state-machine transition. Approval stamps
// approved_at; admin notes may only be written by admins.
func (r *ClaimRepository) UpdateClaimStatus(ctx context.Context, claimID string, caller types.Caller, newStatus types.ClaimStatus, adminNotes *string) (*types.Claim, error) {

	claim, err := r.Claim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanTransition(claim, caller, newStatus); err != nil {
		return nil, err
	}

	if adminNotes != nil && !caller.IsAdmin {
		return nil, types.ErrForbidden
	}

	now := time.Now()

	update := map[string]any{
		"status":     newStatus,
		"updated_at": now,
	}
	if newStatus == types.ClaimStatusApproved {
		update["approved_at"] = now
		claim.ApprovedAt = &now
	}
	if adminNotes != nil {
		update["admin_notes"] = adminNotes
		claim.AdminNotes = adminNotes
	}

	query, args, err := psql().Update(claimTableName).
		SetMap(update).
		Where(sq.Eq{"id": claimID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate status update query: %w", err)
	}

	if _, err = r.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}

	claim.Status = newStatus
	claim.UpdatedAt = now

	return claim, nil
}

// DeleteClaim removes a draft claim and everything under it: claim-level
// attachments, item-level attachments, items, then the claim row, in one
// transaction. Blob deletion follows the commit, best-effort.
func (r *ClaimRepository) DeleteClaim(ctx context.Context, claimID string, caller types.Caller) error {

	claim, err := r.Claim(ctx, claimID)
	if err != nil {
		return err
	}

	if err := policy.CanDelete(claim, caller); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	itemIDs, err := claimItemIDs(ctx, tx, claimID)
	if err != nil {
		return err
	}

	claimAttachments, err := attachmentsByClaimID(ctx, tx, claimID)
	if err != nil {
		return err
	}

	itemAttachments, err := attachmentsByItemIDs(ctx, tx, itemIDs)
	if err != nil {
		return err
	}

	orphanURLs := make([]string, 0, len(claimAttachments)+len(itemAttachments))
	for _, attachment := range claimAttachments {
		orphanURLs = append(orphanURLs, attachment.URL)
	}
	for _, attachment := range itemAttachments {
		orphanURLs = append(orphanURLs, attachment.URL)
	}

	deletions := []sq.Sqlizer{
		sq.Eq{"claim_id": claimID},
	}
	if len(itemIDs) > 0 {
		deletions = append(deletions, sq.Eq{"claim_item_id": itemIDs})
	}
	for _, where := range deletions {
		query, args, err := psql().Delete(attachmentTableName).Where(where).ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate delete attachments query: %w", err)
		}
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete attachments: %w", err)
		}
	}

	query, args, err := psql().Delete(claimItemTableName).Where(sq.Eq{"claim_id": claimID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete items query: %w", err)
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete claim items: %w", err)
	}

	query, args, err = psql().Delete(claimTableName).Where(sq.Eq{"id": claimID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete claim query: %w", err)
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.deleteBlobs(ctx, claimID, orphanURLs)

	return nil
}

func (r *ClaimRepository) deleteBlobs(ctx context.Context, claimID string, urls []string) {
	for _, url := range urls {
		if err := r.blobs.Delete(ctx, url); err != nil {
			r.logger.WithError(err).
				WithField("claim_id", claimID).
				WithField("url", url).
				Error("failed to delete orphaned attachment blob")
		}
	}
}

func insertClaimItems(ctx context.Context, tx pgx.Tx, items []*types.ClaimItem) error {
	if len(items) == 0 {
		return nil
	}

	builder := psql().Insert(claimItemTableName).Columns(claimItemColumns...)
	for _, item := range items {
		builder = builder.Values(
			item.ID,
			item.ClaimID,
			item.EmployeeID,
			item.Date,
			item.ItemTypeID,
			item.CurrencyID,
			item.Amount,
			item.Rate,
			item.SGDAmount,
			item.Note,
			item.Details,
			item.EvidenceNo,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert items query: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert claim items: %w", err)
	}

	return nil
}

func insertAttachments(ctx context.Context, tx pgx.Tx, attachments []*types.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	builder := psql().Insert(attachmentTableName).Columns(attachmentColumns...)
	for _, attachment := range attachments {
		builder = builder.Values(
			attachment.ID,
			attachment.ClaimID,
			attachment.ClaimItemID,
			attachment.FileName,
			attachment.URL,
			attachment.FileSize,
			attachment.FileType,
			attachment.CreatedAt,
			attachment.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert attachments query: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert attachments: %w", err)
	}

	return nil
}

func claimItemIDs(ctx context.Context, tx pgx.Tx, claimID string) ([]string, error) {
	query, args, err := psql().Select("id").From(claimItemTableName).
		Where(sq.Eq{"claim_id": claimID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate item ids query: %w", err)
	}

	var ids []string
	if err := pgxscan.Select(ctx, tx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch item ids: %w", err)
	}

	return ids, nil
}

func attachmentsByItemIDs(ctx context.Context, querier pgxscan.Querier, itemIDs []string) ([]*types.Attachment, error) {
	if len(itemIDs) == 0 {
		return []*types.Attachment{}, nil
	}

	query, args, err := psql().Select(attachmentColumns...).From(attachmentTableName).
		Where(sq.Eq{"claim_item_id": itemIDs}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachments query: %w", err)
	}

	var attachments = make([]*types.Attachment, 0)
	if err := pgxscan.Select(ctx, querier, &attachments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch item attachments: %w", err)
	}

	return attachments, nil
}

func attachmentsByClaimID(ctx context.Context, querier pgxscan.Querier, claimID string) ([]*types.Attachment, error) {
	query, args, err := psql().Select(attachmentColumns...).From(attachmentTableName).
		Where(sq.Eq{"claim_id": claimID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachments query: %w", err)
	}

	var attachments = make([]*types.Attachment, 0)
	if err := pgxscan.Select(ctx, querier, &attachments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch claim attachments: %w", err)
	}

	return attachments, nil
}
