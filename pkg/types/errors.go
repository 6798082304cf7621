package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the claim engine. Use with errors.Is; structured
// variants below carry context and unwrap to these.
var (
	ErrClaimNotFound        = errors.New("claim not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrForbidden            = errors.New("operation not permitted for caller")
	ErrIllegalState         = errors.New("operation not valid in current claim status")
	ErrIllegalTransition    = errors.New("status transition not allowed")
	ErrUnknownReferenceCode = errors.New("unknown reference code")
	ErrInvalidDate          = errors.New("invalid date")
	ErrValidation           = errors.New("validation failed")
)

// UnknownReferenceCodeError reports an item-type or currency code with no
// reference-data mapping.
type UnknownReferenceCodeError struct {
	Kind string // "item_type" or "currency"
	Code string
}

func (e *UnknownReferenceCodeError) Error() string {
	return fmt.Sprintf("unknown %s code %q", e.Kind, e.Code)
}

func (e *UnknownReferenceCodeError) Unwrap() error {
	return ErrUnknownReferenceCode
}

// InvalidDateError reports an unparseable or out-of-range expense date.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// IllegalTransitionError reports a status change outside the state machine.
type IllegalTransitionError struct {
	From ClaimStatus
	To   ClaimStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ValidationError reports a malformed field on a submitted item.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrorCode maps a claim-engine error to the stable code carried by the
// result envelope. Unknown errors map to "internal" so callers never see
// raw database or storage failures.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrClaimNotFound), errors.Is(err, ErrEmployeeNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrIllegalState):
		return "illegal_state"
	case errors.Is(err, ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, ErrUnknownReferenceCode):
		return "unknown_reference_code"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
