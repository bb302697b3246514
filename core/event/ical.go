package event

import (
	"fmt"
	"sort"
	"strings"
)

const (
	icsTimeLayout = "20060102T150405Z"
	icsMaxLineLen = 75 // octets, per RFC 5545 §3.1
)

// RenderICS renders the given events as an iCalendar (RFC 5545) document.
// Event UIDs are stable across renders so consuming calendars can track updates.
func RenderICS(calName string, events []Event) string {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartsAt.Before(sorted[j].StartsAt) })

	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:-//chorale//calendar//EN")
	writeICSLine(&b, "CALSCALE:GREGORIAN")
	writeICSLine(&b, "X-WR-CALNAME:"+escapeICS(calName))

	for _, e := range sorted {
		writeICSLine(&b, "BEGIN:VEVENT")
		writeICSLine(&b, fmt.Sprintf("UID:event-%d@chorale", e.ID))
		writeICSLine(&b, "DTSTAMP:"+e.UpdatedAt.UTC().Format(icsTimeLayout))
		writeICSLine(&b, "DTSTART:"+e.StartsAt.UTC().Format(icsTimeLayout))
		writeICSLine(&b, "DTEND:"+e.EndsAt.UTC().Format(icsTimeLayout))
		writeICSLine(&b, "SUMMARY:"+escapeICS(e.Name))
		if e.Kind != "" {
			writeICSLine(&b, "CATEGORIES:"+escapeICS(strings.ToUpper(e.Kind)))
		}
		writeICSLine(&b, "END:VEVENT")
	}

	writeICSLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeICSLine writes one content line, folding it at 75 octets with a
// CRLF + single-space continuation.
func writeICSLine(b *strings.Builder, line string) {
	octets := []byte(line)
	for len(octets) > icsMaxLineLen {
		cut := icsMaxLineLen
		// do not split multi-byte runes
		for cut > 0 && octets[cut]&0xC0 == 0x80 {
			cut--
		}
		b.Write(octets[:cut])
		b.WriteString("\r\n ")
		octets = octets[cut:]
	}
	b.Write(octets)
	b.WriteString("\r\n")
}

// escapeICS escapes text per RFC 5545 §3.3.11.
func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}
