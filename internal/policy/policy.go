// Package policy centralizes the authorization predicates for claim
// mutations. The repository and query service both consult it, so this is
// the single place that decides who may do what in which status.
package policy

import "claimdesk/pkg/types"

// CanView allows the claim owner and any admin to read a claim.
func CanView(claim *types.Claim, caller types.Caller) error {
	if caller.IsAdmin || caller.EmployeeID == claim.EmployeeID {
		return nil
	}
	return types.ErrForbidden
}

// CanEdit gates item replacement. Owners may edit while the claim is still
// in draft or submitted; admins may override in any status.
func CanEdit(claim *types.Claim, caller types.Caller) error {
	if caller.IsAdmin {
		return nil
	}
	if caller.EmployeeID != claim.EmployeeID {
		return types.ErrForbidden
	}
	if claim.Status != types.ClaimStatusDraft && claim.Status != types.ClaimStatusSubmitted {
		return types.ErrIllegalState
	}
	return nil
}

// CanDelete permits deletion only by the owner and only while the claim is
// a draft.
func CanDelete(claim *types.Claim, caller types.Caller) error {
	if caller.EmployeeID != claim.EmployeeID {
		return types.ErrForbidden
	}
	if claim.Status != types.ClaimStatusDraft {
		return types.ErrIllegalState
	}
	return nil
}

// CanTransition validates a status change against the state machine:
//
//	draft     -> submitted   owner
//	submitted -> draft       owner
//	submitted -> approved    admin
//	submitted -> rejected    admin
//	any       -> any         admin override, target must be a known status
func CanTransition(claim *types.Claim, caller types.Caller, to types.ClaimStatus) error {
	if !types.KnownClaimStatus(to) {
		return &types.IllegalTransitionError{From: claim.Status, To: to}
	}

	if caller.IsAdmin {
		return nil
	}

	if caller.EmployeeID != claim.EmployeeID {
		return types.ErrForbidden
	}

	from := claim.Status
	ownerAllowed := (from == types.ClaimStatusDraft && to == types.ClaimStatusSubmitted) ||
		(from == types.ClaimStatusSubmitted && to == types.ClaimStatusDraft)
	if !ownerAllowed {
		return &types.IllegalTransitionError{From: from, To: to}
	}

	return nil
}
