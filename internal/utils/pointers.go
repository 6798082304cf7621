package utils

import "time"

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullableString maps empty strings to nil so optional free-text columns
// store NULL rather than "".
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
