package store

import (
	"context"
	"fmt"
	"sort"

	"claimdesk/internal/utils"
	"claimdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	itemTypeTableName = "claimdesk.item_types"
	currencyTableName = "claimdesk.currencies"
)

var (
	itemTypeColumns = utils.StructTagValues(types.ItemType{})
	currencyColumns = utils.StructTagValues(types.Currency{})
)

type ReferenceRepository struct {
	pool *pgxpool.Pool
}

func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// Lookup loads the active reference data into memory for the duration of
// one operation. Codes are re-resolved on every create/update so stale
// reference data can never corrupt a claim.
func (r *ReferenceRepository) Lookup(ctx context.Context) (*Lookup, error) {

	query, args, err := psql().Select(itemTypeColumns...).From(itemTypeTableName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate item type query: %w", err)
	}

	var itemTypes []*types.ItemType
	if err := pgxscan.Select(ctx, r.pool, &itemTypes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch item types: %w", err)
	}

	query, args, err = psql().Select(currencyColumns...).From(currencyTableName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("code asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate currency query: %w", err)
	}

	var currencies []*types.Currency
	if err := pgxscan.Select(ctx, r.pool, &currencies, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch currencies: %w", err)
	}

	return NewLookup(itemTypes, currencies), nil
}

func (r *ReferenceRepository) UpsertItemType(ctx context.Context, itemType *types.ItemType) error {
	query, args, err := psql().Insert(itemTypeTableName).
		SetMap(utils.StructToMap(itemType)).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate item type upsert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert item type")
}

func (r *ReferenceRepository) UpsertCurrency(ctx context.Context, currency *types.Currency) error {
	query, args, err := psql().Insert(currencyTableName).
		SetMap(utils.StructToMap(currency)).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate currency upsert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert currency")
}

// Lookup maps human-facing reference codes to their rows. Built once per
// operation, read-only afterwards.
type Lookup struct {
	itemTypes  map[string]*types.ItemType
	currencies map[string]*types.Currency
}

func NewLookup(itemTypes []*types.ItemType, currencies []*types.Currency) *Lookup {
	l := &Lookup{
		itemTypes:  make(map[string]*types.ItemType, len(itemTypes)),
		currencies: make(map[string]*types.Currency, len(currencies)),
	}
	for _, it := range itemTypes {
		l.itemTypes[it.Code] = it
	}
	for _, c := range currencies {
		l.currencies[c.Code] = c
	}
	return l
}

func (l *Lookup) ItemType(code string) (*types.ItemType, error) {
	itemType, ok := l.itemTypes[code]
	if !ok {
		return nil, &types.UnknownReferenceCodeError{Kind: "item_type", Code: code}
	}
	return itemType, nil
}

func (l *Lookup) Currency(code string) (*types.Currency, error) {
	currency, ok := l.currencies[code]
	if !ok {
		return nil, &types.UnknownReferenceCodeError{Kind: "currency", Code: code}
	}
	return currency, nil
}

// Summary reports the active reference codes, for seed output.
func (l *Lookup) Summary() map[string][]string {
	itemTypes := make([]string, 0, len(l.itemTypes))
	for code := range l.itemTypes {
		itemTypes = append(itemTypes, code)
	}
	currencies := make([]string, 0, len(l.currencies))
	for code := range l.currencies {
		currencies = append(currencies, code)
	}
	sort.Strings(itemTypes)
	sort.Strings(currencies)

	return map[string][]string{
		"item_types": itemTypes,
		"currencies": currencies,
	}
}
