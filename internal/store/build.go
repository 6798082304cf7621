package store

import (
	"errors"
	"strings"
	"time"

	"claimdesk/internal/dates"
	"claimdesk/internal/money"
	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// buildClaimItems turns the loosely-typed submitted items into priced rows:
// required-field validation, decimal parsing, reference-code resolution,
// and date normalization, plus the derived SGD amount and claim total.
//
// Any failure aborts the whole set. This runs on every create and update,
// never trusting values from a prior call.
func buildClaimItems(lookup *Lookup, claimID, employeeID string, raw []types.RawItem, today, now time.Time) ([]*types.ClaimItem, decimal.Decimal, error) {

	items := make([]*types.ClaimItem, 0, len(raw))
	for i := range raw {
		item, err := buildClaimItem(lookup, claimID, employeeID, &raw[i], today, now)
		if err != nil {
			return nil, decimal.Zero, err
		}
		items = append(items, item)
	}

	return items, money.ClaimTotal(items), nil
}

func buildClaimItem(lookup *Lookup, claimID, employeeID string, in *types.RawItem, today, now time.Time) (*types.ClaimItem, error) {

	if err := validate.Struct(in); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return nil, &types.ValidationError{
				Field:  strings.ToLower(fe.Field()),
				Reason: "failed " + fe.Tag() + " check",
			}
		}
		return nil, &types.ValidationError{Field: "item", Reason: err.Error()}
	}

	amount, err := parseMoney("amount", in.Amount)
	if err != nil {
		return nil, err
	}

	rate, err := parseMoney("rate", in.Rate)
	if err != nil {
		return nil, err
	}

	expenseDate, err := dates.ResolvePartialDate(in.Date, today)
	if err != nil {
		return nil, err
	}

	itemType, err := lookup.ItemType(strings.TrimSpace(in.ItemType))
	if err != nil {
		return nil, err
	}

	currency, err := lookup.Currency(strings.TrimSpace(in.Currency))
	if err != nil {
		return nil, err
	}

	return &types.ClaimItem{
		ID:         utils.NanoID(),
		ClaimID:    claimID,
		EmployeeID: employeeID,
		Date:       expenseDate,
		ItemTypeID: itemType.ID,
		CurrencyID: currency.ID,
		Amount:     amount,
		Rate:       rate,
		SGDAmount:  money.SGDAmount(amount, rate),
		Note:       utils.NullableString(in.Note),
		Details:    utils.NullableString(in.Details),
		EvidenceNo: utils.NullableString(in.EvidenceNo),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// parseMoney rejects malformed numeric strings instead of coercing them.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &types.ValidationError{Field: field, Reason: "not a decimal number"}
	}
	if d.Sign() < 0 {
		return decimal.Zero, &types.ValidationError{Field: field, Reason: "must not be negative"}
	}
	return d, nil
}

// replacementPlan describes the attachment side of a wholesale item
// replacement: which blobs become orphans once the old rows are gone, and
// which rows to recreate against the new item ids. Retained files are
// relinked, never re-uploaded, and their blobs are never deleted.
type replacementPlan struct {
	orphanURLs []string
	relinked   []*types.Attachment
}

func buildReplacementPlan(existing []*types.Attachment, items []*types.ClaimItem, raw []types.RawItem, now time.Time) replacementPlan {

	var plan replacementPlan

	retained := make(map[string]struct{})
	for i, item := range items {
		for _, keep := range raw[i].Retain {
			retained[keep.URL] = struct{}{}

			itemID := item.ID
			plan.relinked = append(plan.relinked, &types.Attachment{
				ID:          utils.NanoID(),
				ClaimItemID: &itemID,
				FileName:    keep.FileName,
				URL:         keep.URL,
				FileSize:    keep.FileSize,
				FileType:    keep.FileType,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	for _, attachment := range existing {
		if _, ok := retained[attachment.URL]; ok {
			continue
		}
		plan.orphanURLs = append(plan.orphanURLs, attachment.URL)
	}

	return plan
}
