package nhsp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeRange(t *testing.T) {
	cases := []struct {
		now         time.Time
		expectStart string
		expectEnd   string
	}{
		{
			now:         time.Date(2024, time.May, 14, 13, 45, 12, 0, time.UTC),
			expectStart: "2024-05-14T00:00:00.000Z",
			expectEnd:   "2024-06-14T00:00:00.000Z",
		},
		{
			now:         time.Date(2023, time.December, 15, 23, 59, 59, 0, time.UTC),
			expectStart: "2023-12-15T00:00:00.000Z",
			expectEnd:   "2024-01-15T00:00:00.000Z",
		},
		{
			// 2024-02 has 29 days, so Jan 31 rolls over into March
			now:         time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC),
			expectStart: "2024-01-31T00:00:00.000Z",
			expectEnd:   "2024-03-02T00:00:00.000Z",
		},
	}

	for _, test := range cases {
		rng := ComputeRange(test.now)
		require.Equal(t, test.expectStart, rng.StartParam())
		require.Equal(t, test.expectEnd, rng.EndParam())
	}
}

func TestComputeRangeIsMidnightUTC(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	nows := []time.Time{
		time.Date(2024, time.June, 1, 0, 30, 0, 0, london),
		time.Date(2024, time.June, 1, 23, 30, 0, 0, london),
		time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC),
	}

	for _, now := range nows {
		rng := ComputeRange(now)
		for _, bound := range []time.Time{rng.Start, rng.End} {
			require.Equal(t, time.UTC, bound.Location())
			require.Equal(t, 0, bound.Hour())
			require.Equal(t, 0, bound.Minute())
			require.Equal(t, 0, bound.Second())
		}
		require.Equal(t, rng.Start.AddDate(0, 1, 0), rng.End)
	}
}
