// Package store holds the transactional persistence layer for the claim
// engine. Each repository wraps a pgx pool; the claim aggregate (claim,
// items, attachments) is always mutated inside a single transaction.
package store

import sq "github.com/Masterminds/squirrel"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
