package seed

import (
	"context"
	"fmt"
	"time"

	"claimdesk/internal/store"
	"claimdesk/pkg/types"
)

// SeedReferenceData syncs the item-type and currency tables with the
// definitions below. This file is the source of truth for reference data:
// rows are upserted by code, so edits here land on the next `claimdesk seed`.
//
// To generate new IDs: `go run ./cmd/claimdesk nanoid`
func SeedReferenceData(ctx context.Context, repo *store.ReferenceRepository) error {

	now := time.Now()

	itemTypes := []types.ItemType{
		{ID: "hFm2u1yOgdaXYYkD0aYQEnro5P3vJMeT", Code: "C1", Name: "Meals & Entertainment", DisplayOrder: 1, IsActive: true},
		{ID: "q7jzH0ZIpPX0eDBmW0y5ppnVWyUKMA8l", Code: "C2", Name: "Transport", DisplayOrder: 2, IsActive: true},
		{ID: "bS4lP9Dq2kIXkOeM1F7h4o0u7jmEYwc1", Code: "C3", Name: "Accommodation", DisplayOrder: 3, IsActive: true},
		{ID: "Y0fWcNdK3tqB7vR2s8pLxJ5uH1aG6mDz", Code: "C4", Name: "Office Supplies", DisplayOrder: 4, IsActive: true},
		{ID: "e9KpT2wVx5nM8cQ1bZ7rY4sJ0fL3hGaU", Code: "C5", Name: "Communications", DisplayOrder: 5, IsActive: true},
		{ID: "R6dN1mF8zX3kW9vC2tB5qP7yL0sJ4hEo", Code: "C6", Name: "Training & Seminars", DisplayOrder: 6, IsActive: true},
		{ID: "u3GcV7bK0nT5xM2wQ9zR1fD8sY6pL4je", Code: "C7", Name: "Medical", DisplayOrder: 7, IsActive: true},
		{ID: "I8sQ4hW2mZ6vN0cX3kB7tF1yR9dP5lGa", Code: "C8", Name: "Others", DisplayOrder: 8, IsActive: true},
	}

	for i := range itemTypes {
		itemTypes[i].CreatedAt = now
		itemTypes[i].UpdatedAt = now
		if err := repo.UpsertItemType(ctx, &itemTypes[i]); err != nil {
			return fmt.Errorf("seed item type %s: %w", itemTypes[i].Code, err)
		}
	}

	currencies := []types.Currency{
		{ID: "aT5kM9wB2xQ7nV0cZ4rF8sD1yG6pL3jh", Code: "SGD", Name: "Singapore Dollar", IsActive: true},
		{ID: "o2Wv6cN0zK4mX8bT1qR5fJ9sY3dP7lGe", Code: "USD", Name: "US Dollar", IsActive: true},
		{ID: "E7pL1gS5jY9dF3rC0vB4kN8mW2xQ6zTa", Code: "MYR", Name: "Malaysian Ringgit", IsActive: true},
		{ID: "i4Dh8sG2lP6yJ0fV3cZ7rM1kB5nX9wQt", Code: "EUR", Name: "Euro", IsActive: true},
		{ID: "U1xQ5zT9wE3pK7jL0gS4fY8dC2vB6rNm", Code: "JPY", Name: "Japanese Yen", IsActive: true},
		{ID: "y6Bn0mV4cX8kZ2tR5qW9fJ3sG7dL1phE", Code: "CNY", Name: "Chinese Yuan", IsActive: true},
		{ID: "s3Fj7dH1lN5gP9yU2wQ6zK0mC4vB8xTr", Code: "IDR", Name: "Indonesian Rupiah", IsActive: true},
	}

	for i := range currencies {
		currencies[i].CreatedAt = now
		currencies[i].UpdatedAt = now
		if err := repo.UpsertCurrency(ctx, &currencies[i]); err != nil {
			return fmt.Errorf("seed currency %s: %w", currencies[i].Code, err)
		}
	}

	return nil
}
