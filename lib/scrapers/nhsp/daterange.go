package nhsp

import "time"

const wireDateFormat = "2006-01-02T15:04:05.000Z"

// DateRange is the [Start, End) window the advanced search is queried
// over. Both bounds are midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ComputeRange returns the window from the start of today to the same
// day next month. Month arithmetic follows time.AddDate, so a day that
// doesn't exist in the target month rolls over (Jan 31 becomes Mar 2
// or 3) rather than clamping.
func ComputeRange(now time.Time) DateRange {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

func (r DateRange) StartParam() string {
	return r.Start.Format(wireDateFormat)
}

func (r DateRange) EndParam() string {
	return r.End.Format(wireDateFormat)
}
