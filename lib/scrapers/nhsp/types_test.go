package nhsp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	tm, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tm
}

func TestNormalize(t *testing.T) {
	resp := &ShiftsResponse{
		Shifts: []RawShift{
			{
				ShiftDate: "2024-05-01T09:00:00Z",
				Location:  NamedRef{Name: "X"},
				Ward:      NamedRef{Name: "Y"},
				StartTime: "2024-05-01T09:00:00Z",
				EndTime:   "2024-05-01T17:00:00Z",
				Notes:     []string{},
			},
		},
	}

	shifts := Normalize(resp)
	require.Len(t, shifts, 1)
	require.Equal(t, "X", shifts[0].Location)
	require.Equal(t, "Y", shifts[0].Ward)
	require.Equal(t, "09:00", shifts[0].StartTime)
	require.Equal(t, "17:00", shifts[0].EndTime)
	// the placeholder note is a render-time concern, storage keeps
	// the empty list as-is
	require.Empty(t, shifts[0].Notes)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Empty(t, Normalize(nil))
	require.Empty(t, Normalize(&ShiftsResponse{}))
	require.Empty(t, Normalize(&ShiftsResponse{Shifts: []RawShift{}}))
}

func TestNormalizeMissingShiftsKey(t *testing.T) {
	var resp ShiftsResponse
	err := json.Unmarshal([]byte(`{"Message":"no results"}`), &resp)
	require.NoError(t, err)
	require.Empty(t, Normalize(&resp))
}

func TestTimeOfDay(t *testing.T) {
	require.Equal(t, "09:00", timeOfDay("2024-05-01T09:00:00Z"))
	require.Equal(t, "23:45", timeOfDay("2024-05-01T23:45:00"))
	require.Equal(t, "", timeOfDay("not a timestamp"))
	require.Equal(t, "", timeOfDay("2024-05-01T09"))
}

func TestSearchRequestShape(t *testing.T) {
	rng := ComputeRange(mustParse(t, "2024-05-14T10:00:00Z"))
	body, err := json.Marshal(searchRequest{
		AssignmentCode:              nil,
		EndDate:                     rng.EndParam(),
		HideOverlap:                 true,
		LocationCode:                []string{},
		MatchShiftsToMyAvailability: false,
		ShiftType:                   nil,
		StartDate:                   rng.StartParam(),
		TrustCode:                   []string{},
		WardCode:                    []string{},
	})
	require.NoError(t, err)

	require.JSONEq(t, `{
		"AssignmentCode": null,
		"EndDate": "2024-06-14T00:00:00.000Z",
		"HideOverlap": true,
		"LocationCode": [],
		"MatchShiftsToMyAvailability": false,
		"ShiftType": null,
		"StartDate": "2024-05-14T00:00:00.000Z",
		"TrustCode": [],
		"WardCode": []
	}`, string(body))
}
