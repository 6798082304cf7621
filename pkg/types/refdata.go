package types

import "time"

// ItemType is a reference-data expense category, e.g. C2 "Transport".
type ItemType struct {
	ID           string    `db:"id"`
	Code         string    `db:"code"`
	Name         string    `db:"name"`
	DisplayOrder int       `db:"display_order"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Currency is a reference-data currency, keyed by ISO-style code.
type Currency struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
