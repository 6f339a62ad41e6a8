package nhsp

import "strings"

// ShiftsResponse is the raw shape returned by the advanced search
// endpoint. The Shifts key is absent entirely when nothing is
// available.
type ShiftsResponse struct {
	Shifts []RawShift `json:"Shifts"`
}

type RawShift struct {
	ShiftDate string   `json:"ShiftDate"`
	Location  NamedRef `json:"Location"`
	Ward      NamedRef `json:"Ward"`
	StartTime string   `json:"StartTime"`
	EndTime   string   `json:"EndTime"`
	Notes     []string `json:"Notes"`
}

type NamedRef struct {
	Name string `json:"Name"`
}

// Shift is a normalized listing. Notes are stored exactly as returned,
// an empty list gets its placeholder at render time.
type Shift struct {
	Date      string
	Location  string
	Ward      string
	StartTime string
	EndTime   string
	Notes     []string
}

// Normalize flattens the raw response into listings. A nil response or
// missing/empty Shifts collection normalizes to nothing.
func Normalize(resp *ShiftsResponse) []Shift {
	if resp == nil || len(resp.Shifts) == 0 {
		return nil
	}

	out := make([]Shift, len(resp.Shifts))
	for i, raw := range resp.Shifts {
		out[i] = Shift{
			Date:      raw.ShiftDate,
			Location:  raw.Location.Name,
			Ward:      raw.Ward.Name,
			StartTime: timeOfDay(raw.StartTime),
			EndTime:   timeOfDay(raw.EndTime),
			Notes:     raw.Notes,
		}
	}
	return out
}

// timeOfDay extracts "HH:MM" from a combined date-time string like
// "2024-05-01T09:00:00Z".
func timeOfDay(s string) string {
	i := strings.IndexByte(s, 'T')
	if i < 0 || len(s) < i+6 {
		return ""
	}
	return s[i+1 : i+6]
}
