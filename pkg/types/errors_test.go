package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrClaimNotFound, "not_found"},
		{ErrEmployeeNotFound, "not_found"},
		{ErrForbidden, "forbidden"},
		{ErrIllegalState, "illegal_state"},
		{ErrIllegalTransition, "illegal_transition"},
		{ErrUnknownReferenceCode, "unknown_reference_code"},
		{ErrInvalidDate, "invalid_date"},
		{ErrValidation, "validation"},
		{fmt.Errorf("pool exhausted"), "internal"},
		{nil, ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.code, ErrorCode(c.err))
	}
}

func TestErrorCodeUnwrapsStructuredErrors(t *testing.T) {
	assert.Equal(t, "unknown_reference_code", ErrorCode(&UnknownReferenceCodeError{Kind: "currency", Code: "XXX"}))
	assert.Equal(t, "invalid_date", ErrorCode(&InvalidDateError{Input: "13/40", Reason: "month out of range"}))
	assert.Equal(t, "illegal_transition", ErrorCode(&IllegalTransitionError{From: ClaimStatusApproved, To: ClaimStatusDraft}))
	assert.Equal(t, "validation", ErrorCode(&ValidationError{Field: "amount", Reason: "must be a positive number"}))

	// Wrapped errors keep their code.
	wrapped := fmt.Errorf("update claim: %w", &IllegalTransitionError{From: ClaimStatusRejected, To: ClaimStatusSubmitted})
	assert.Equal(t, "illegal_transition", ErrorCode(wrapped))
}

func TestStructuredErrorMessages(t *testing.T) {
	err := &UnknownReferenceCodeError{Kind: "item_type", Code: "C99"}
	require.EqualError(t, err, `unknown item_type code "C99"`)

	transition := &IllegalTransitionError{From: ClaimStatusDraft, To: ClaimStatusApproved}
	require.EqualError(t, transition, "illegal status transition draft -> approved")
}
