package seed

import (
	"context"
	"fmt"

	"claimdesk/internal/store"
	"claimdesk/internal/utils"
	"claimdesk/pkg/types"
)

// SeedEmployees provisions the demo accounts used in development. The
// production employee directory is owned by the external admin workflow.
func SeedEmployees(ctx context.Context, repo *store.EmployeeRepository) error {

	employees := []types.Employee{
		{
			ID:         "kR2mX8vB4cN0zT6wQ1fJ9sY3dG7pL5he",
			Name:       "Alice Tan",
			Email:      utils.StringPtr("alice.tan@example.com"),
			Department: utils.StringPtr("Finance"),
			IsAdmin:    true,
		},
		{
			ID:         "w9Qz3kT7mB1xV5cN8rF2sJ6yD0gP4lha",
			Name:       "Ben Lim",
			Email:      utils.StringPtr("ben.lim@example.com"),
			Department: utils.StringPtr("Engineering"),
		},
		{
			ID:         "f5Jd9sG3lH7pY1wU4cQ8zK2mV6bX0nTr",
			Name:       "Chen Wei",
			Email:      utils.StringPtr("chen.wei@example.com"),
			Department: utils.StringPtr("Sales"),
		},
	}

	for i := range employees {
		if err := repo.UpsertEmployee(ctx, &employees[i]); err != nil {
			return fmt.Errorf("seed employee %s: %w", employees[i].Name, err)
		}
	}

	return nil
}
