package policy_test

import (
	"errors"
	"testing"

	"claimdesk/internal/policy"
	"claimdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = types.Caller{EmployeeID: "emp-7"}
	stranger = types.Caller{EmployeeID: "emp-9"}
	admin    = types.Caller{EmployeeID: "emp-1", IsAdmin: true}
)

func claimIn(status types.ClaimStatus) *types.Claim {
	return &types.Claim{ID: "clm-1", EmployeeID: "emp-7", Status: status}
}

func TestCanView(t *testing.T) {
	claim := claimIn(types.ClaimStatusSubmitted)

	assert.NoError(t, policy.CanView(claim, owner))
	assert.NoError(t, policy.CanView(claim, admin))
	assert.ErrorIs(t, policy.CanView(claim, stranger), types.ErrForbidden)
}

func TestCanEdit(t *testing.T) {
	assert.NoError(t, policy.CanEdit(claimIn(types.ClaimStatusDraft), owner))
	assert.NoError(t, policy.CanEdit(claimIn(types.ClaimStatusSubmitted), owner))
	assert.ErrorIs(t, policy.CanEdit(claimIn(types.ClaimStatusApproved), owner), types.ErrIllegalState)
	assert.ErrorIs(t, policy.CanEdit(claimIn(types.ClaimStatusRejected), owner), types.ErrIllegalState)
	assert.ErrorIs(t, policy.CanEdit(claimIn(types.ClaimStatusDraft), stranger), types.ErrForbidden)

	// admin override edits past approval
	assert.NoError(t, policy.CanEdit(claimIn(types.ClaimStatusApproved), admin))
}

func TestCanDelete(t *testing.T) {
	assert.NoError(t, policy.CanDelete(claimIn(types.ClaimStatusDraft), owner))
	assert.ErrorIs(t, policy.CanDelete(claimIn(types.ClaimStatusSubmitted), owner), types.ErrIllegalState)
	assert.ErrorIs(t, policy.CanDelete(claimIn(types.ClaimStatusDraft), stranger), types.ErrForbidden)

	// deletion has no admin override
	assert.ErrorIs(t, policy.CanDelete(claimIn(types.ClaimStatusDraft), admin), types.ErrForbidden)
}

func TestCanTransitionOwner(t *testing.T) {
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusDraft), owner, types.ClaimStatusSubmitted))
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusSubmitted), owner, types.ClaimStatusDraft))

	blocked := []struct {
		from, to types.ClaimStatus
	}{
		{types.ClaimStatusSubmitted, types.ClaimStatusApproved},
		{types.ClaimStatusSubmitted, types.ClaimStatusRejected},
		{types.ClaimStatusApproved, types.ClaimStatusSubmitted},
		{types.ClaimStatusRejected, types.ClaimStatusDraft},
		{types.ClaimStatusDraft, types.ClaimStatusApproved},
	}
	for _, tc := range blocked {
		err := policy.CanTransition(claimIn(tc.from), owner, tc.to)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.ErrorIs(t, err, types.ErrIllegalTransition, "%s -> %s", tc.from, tc.to)

		var transition *types.IllegalTransitionError
		require.True(t, errors.As(err, &transition))
		assert.Equal(t, tc.from, transition.From)
		assert.Equal(t, tc.to, transition.To)
	}
}

func TestCanTransitionAdmin(t *testing.T) {
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusSubmitted), admin, types.ClaimStatusApproved))
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusSubmitted), admin, types.ClaimStatusRejected))

	// override: any -> any, as long as the target status is known
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusApproved), admin, types.ClaimStatusSubmitted))
	assert.NoError(t, policy.CanTransition(claimIn(types.ClaimStatusRejected), admin, types.ClaimStatusDraft))

	err := policy.CanTransition(claimIn(types.ClaimStatusSubmitted), admin, types.ClaimStatus("archived"))
	assert.ErrorIs(t, err, types.ErrIllegalTransition)
}

func TestCanTransitionStranger(t *testing.T) {
	err := policy.CanTransition(claimIn(types.ClaimStatusDraft), stranger, types.ClaimStatusSubmitted)
	assert.ErrorIs(t, err, types.ErrForbidden)
}
