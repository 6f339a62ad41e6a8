package monitor

import (
	"strings"
	"testing"

	"shiftwatch/lib/scrapers/nhsp"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testPortalURL = "https://portal.example"

func renderDoc(t *testing.T, shifts []nhsp.Shift) *goquery.Document {
	body := RenderShifts(testPortalURL, shifts)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestRenderShifts(t *testing.T) {
	doc := renderDoc(t, []nhsp.Shift{
		{
			Date:      "2024-05-01T09:00:00Z",
			Location:  "St Example's Hospital",
			Ward:      "A&E",
			StartTime: "09:00",
			EndTime:   "17:00",
			Notes:     []string{"Bring ID badge"},
		},
	})

	require.Equal(t, "Upcoming Shifts", doc.Find("h2").Text())
	require.Equal(t, "Shift Date: Wednesday 1 May 2024 @ 09:00", doc.Find("h3").Text())
	require.Contains(t, doc.Text(), "St Example's Hospital")
	// goquery unescapes entities, the ward renders intact
	require.Contains(t, doc.Text(), "A&E")
	require.Equal(t, "Bring ID badge", doc.Find("li").Text())

	link := doc.Find("a")
	require.Equal(t, "Book Now", link.Text())
	require.Equal(t, testPortalURL, link.AttrOr("href", ""))
}

func TestRenderShiftsNotesPlaceholder(t *testing.T) {
	doc := renderDoc(t, []nhsp.Shift{
		{
			Date:      "2024-05-01T09:00:00Z",
			Location:  "X",
			Ward:      "Y",
			StartTime: "09:00",
			EndTime:   "17:00",
			Notes:     nil,
		},
	})

	require.Equal(t, "No additional notes", doc.Find("li").Text())
}

func TestRenderShiftsOnePerShift(t *testing.T) {
	doc := renderDoc(t, []nhsp.Shift{
		{Date: "2024-05-01T09:00:00Z", Location: "A", Ward: "W1"},
		{Date: "2024-05-02T09:00:00Z", Location: "B", Ward: "W2"},
	})

	require.Equal(t, 2, doc.Find("h3").Length())
	require.Equal(t, 2, doc.Find("a").Length())
}

func TestRenderShiftsDeterministic(t *testing.T) {
	shifts := []nhsp.Shift{
		{Date: "2024-05-01T09:00:00Z", Location: "A", Ward: "W", Notes: []string{"n1", "n2"}},
	}
	require.Equal(t,
		RenderShifts(testPortalURL, shifts),
		RenderShifts(testPortalURL, shifts),
	)
}

func TestFormatShiftDateFallback(t *testing.T) {
	require.Equal(t, "soon", formatShiftDate("soon"))
}
