package monitor

import (
	"fmt"
	"html"
	"strings"
	"time"

	"shiftwatch/lib/scrapers/nhsp"
)

const noNotesPlaceholder = "No additional notes"

var shiftDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RenderShifts produces the HTML notification body. The change
// detector compares these bodies byte-for-byte, so rendering must stay
// deterministic for a given shift list.
func RenderShifts(portalURL string, shifts []nhsp.Shift) string {
	var b strings.Builder
	b.WriteString("<h2>Upcoming Shifts</h2> <hr> ")

	for _, shift := range shifts {
		fmt.Fprintf(&b, "<h3>Shift Date: %s</h3>", formatShiftDate(shift.Date))
		fmt.Fprintf(&b, "<p><strong>Location:</strong> %s</p>", html.EscapeString(shift.Location))
		fmt.Fprintf(&b, "<p><strong>Ward:</strong> %s</p>", html.EscapeString(shift.Ward))
		fmt.Fprintf(&b, "<p><strong>Start Time:</strong> %s</p>", shift.StartTime)
		fmt.Fprintf(&b, "<p><strong>End Time:</strong> %s</p>", shift.EndTime)

		b.WriteString("<p><strong>Notes:</strong></p><ul>")
		if len(shift.Notes) == 0 {
			fmt.Fprintf(&b, "<li>%s</li>", noNotesPlaceholder)
		} else {
			for _, note := range shift.Notes {
				fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(note))
			}
		}
		b.WriteString("</ul> <hr> ")

		fmt.Fprintf(&b, "<a href='%s'>Book Now</a> ", portalURL)
	}

	return b.String()
}

// formatShiftDate turns "2024-05-01T09:00:00Z" into
// "Wednesday 1 May 2024 @ 09:00". Unparseable dates render verbatim
// rather than dropping the shift.
func formatShiftDate(raw string) string {
	for _, layout := range shiftDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return fmt.Sprintf(
			"%s %d %s %d @ %02d:%02d",
			t.Weekday(), t.Day(), t.Month(), t.Year(),
			t.Hour(), t.Minute(),
		)
	}
	return html.EscapeString(raw)
}
