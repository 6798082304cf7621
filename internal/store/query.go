package store

import (
	"context"
	"fmt"

	"claimdesk/internal/policy"
	"claimdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClaimQueryService is the read side: it assembles a claim with its items,
// resolved reference data, attachments, and owner identity. Side-effect
// free; used both for display and as the read-before-write source for edit
// forms.
type ClaimQueryService struct {
	pool *pgxpool.Pool
}

func NewClaimQueryService(pool *pgxpool.Pool) *ClaimQueryService {
	return &ClaimQueryService{pool: pool}
}

func (s *ClaimQueryService) ClaimDetails(ctx context.Context, claimID string, caller types.Caller) (*types.ClaimDetail, error) {

	claim, err := s.claim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanView(claim, caller); err != nil {
		return nil, err
	}

	owner, err := s.employee(ctx, claim.EmployeeID)
	if err != nil {
		return nil, err
	}

	items, err := s.claimItemDetails(ctx, claimID)
	if err != nil {
		return nil, err
	}

	claimAttachments, err := attachmentsByClaimID(ctx, s.pool, claimID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	itemAttachments, err := attachmentsByItemIDs(ctx, s.pool, itemIDs)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*types.Attachment, len(items))
	for _, attachment := range itemAttachments {
		if attachment.ClaimItemID == nil {
			continue
		}
		grouped[*attachment.ClaimItemID] = append(grouped[*attachment.ClaimItemID], attachment)
	}
	for _, item := range items {
		item.Attachments = grouped[item.ID]
		if item.Attachments == nil {
			item.Attachments = []*types.Attachment{}
		}
	}

	return &types.ClaimDetail{
		Claim:       claim,
		Owner:       owner,
		Items:       items,
		Attachments: claimAttachments,
	}, nil
}

// ClaimsByEmployee lists an employee's claims, newest first.
func (s *ClaimQueryService) ClaimsByEmployee(ctx context.Context, employeeID string) ([]*types.Claim, error) {
	return s.claims(ctx, sq.Eq{"employee_id": employeeID})
}

// ClaimsByStatus lists all claims in a status, for the admin review queue.
func (s *ClaimQueryService) ClaimsByStatus(ctx context.Context, status types.ClaimStatus) ([]*types.Claim, error) {
	return s.claims(ctx, sq.Eq{"status": status})
}

func (s *ClaimQueryService) claims(ctx context.Context, where sq.Sqlizer) ([]*types.Claim, error) {

	query, args, err := psql().Select(claimColumns...).From(claimTableName).
		Where(where).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claims query: %w", err)
	}

	var claims = make([]*types.Claim, 0)
	if err := pgxscan.Select(ctx, s.pool, &claims, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch claims: %w", err)
	}

	return claims, nil
}

func (s *ClaimQueryService) claim(ctx context.Context, claimID string) (*types.Claim, error) {

	query, args, err := psql().Select(claimColumns...).From(claimTableName).
		Where(sq.Eq{"id": claimID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim query: %w", err)
	}

	var claim types.Claim
	err = pgxscan.Get(ctx, s.pool, &claim, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim: %w", err)
	}

	return &claim, nil
}

func (s *ClaimQueryService) employee(ctx context.Context, employeeID string) (*types.Employee, error) {

	query, args, err := psql().Select(employeeColumns...).From(employeeTableName).
		Where(sq.Eq{"id": employeeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate employee query: %w", err)
	}

	var employee types.Employee
	err = pgxscan.Get(ctx, s.pool, &employee, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee: %w", err)
	}

	return &employee, nil
}

func (s *ClaimQueryService) claimItemDetails(ctx context.Context, claimID string) ([]*types.ClaimItemDetail, error) {

	columns := prefixColumns("ci", claimItemColumns)
	columns = append(columns,
		"it.code AS item_type_code",
		"it.name AS item_type_name",
		"cur.code AS currency_code",
	)

	query, args, err := psql().Select(columns...).
		From(claimItemTableName+" ci").
		Join(itemTypeTableName+" it ON it.id = ci.item_type_id").
		Join(currencyTableName+" cur ON cur.id = ci.currency_id").
		Where(sq.Eq{"ci.claim_id": claimID}).
		OrderBy("ci.expense_date asc", "ci.created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim items query: %w", err)
	}

	var items = make([]*types.ClaimItemDetail, 0)
	if err := pgxscan.Select(ctx, s.pool, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch claim items: %w", err)
	}

	return items, nil
}

func prefixColumns(prefix string, columns []string) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = fmt.Sprintf("%s.%s", prefix, column)
	}
	return out
}
