package dates_test

import (
	"errors"
	"testing"
	"time"

	"claimdesk/internal/dates"
	"claimdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePartialDateWithYear(t *testing.T) {
	got, err := dates.ResolvePartialDate("03/15/2024", day(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 15), got)
}

func TestResolvePartialDateYearHeuristic(t *testing.T) {
	cases := []struct {
		name  string
		input string
		today time.Time
		want  time.Time
	}{
		// December claim submitted in early January: candidate is ~350
		// days in the future, so it belongs to the previous year.
		{"previous year across boundary", "12/25", day(2024, time.January, 10), day(2023, time.December, 25)},
		// January claim submitted in late December: candidate is ~350
		// days in the past, so it belongs to the next year.
		{"next year across boundary", "01/05", day(2024, time.December, 20), day(2025, time.January, 5)},
		{"same year recent past", "03/15", day(2024, time.June, 1), day(2024, time.March, 15)},
		{"same year near future", "06/20", day(2024, time.June, 1), day(2024, time.June, 20)},
		{"exactly 30 days ahead stays", "07/01", day(2024, time.June, 1), day(2024, time.July, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dates.ResolvePartialDate(tc.input, tc.today)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolvePartialDateFailures(t *testing.T) {
	today := day(2024, time.June, 1)

	for _, input := range []string{"", "junk", "13/01", "00/10", "01/32", "01/00", "aa/bb", "1/2/three", "1/2/3/4"} {
		_, err := dates.ResolvePartialDate(input, today)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, types.ErrInvalidDate), "input %q", input)

		var invalid *types.InvalidDateError
		assert.True(t, errors.As(err, &invalid), "input %q", input)
	}
}

func TestResolvePartialDateOrNow(t *testing.T) {
	today := day(2024, time.June, 1)

	assert.Equal(t, day(2024, time.March, 15), dates.ResolvePartialDateOrNow("03/15", today))
	assert.Equal(t, today, dates.ResolvePartialDateOrNow("garbage", today))
}
