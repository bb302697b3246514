package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderICS(t *testing.T) {
	stamp := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{
			ID:        2,
			Name:      "Autumn Concert",
			Kind:      KindConcert,
			StartsAt:  time.Date(2026, 11, 21, 19, 30, 0, 0, time.UTC),
			EndsAt:    time.Date(2026, 11, 21, 21, 30, 0, 0, time.UTC),
			UpdatedAt: stamp,
		},
		{
			ID:        1,
			Name:      "Tuesday Rehearsal; sectionals first",
			Kind:      KindRehearsal,
			StartsAt:  time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC),
			EndsAt:    time.Date(2026, 9, 15, 21, 0, 0, 0, time.UTC),
			UpdatedAt: stamp,
		},
	}

	ics := RenderICS("Vox Lumina", events)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "X-WR-CALNAME:Vox Lumina\r\n")

	// events come out sorted by start time
	rehearsal := strings.Index(ics, "UID:event-1@chorale")
	concert := strings.Index(ics, "UID:event-2@chorale")
	require.True(t, rehearsal >= 0 && concert >= 0)
	assert.Less(t, rehearsal, concert)

	assert.Contains(t, ics, "DTSTART:20260915T183000Z\r\n")
	assert.Contains(t, ics, "DTEND:20261121T213000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:Tuesday Rehearsal\\; sectionals first\r\n")
	assert.Contains(t, ics, "CATEGORIES:CONCERT\r\n")
}

func TestRenderICSStableUIDs(t *testing.T) {
	e := Event{ID: 9, Name: "Retreat", StartsAt: time.Now(), EndsAt: time.Now().Add(time.Hour)}

	first := RenderICS("Cal", []Event{e})
	e.Name = "Renamed Retreat"
	second := RenderICS("Cal", []Event{e})

	assert.Contains(t, first, "UID:event-9@chorale")
	assert.Contains(t, second, "UID:event-9@chorale")
}

func TestRenderICSLineFolding(t *testing.T) {
	longName := strings.Repeat("Messiah ", 30) // well past 75 octets
	ics := RenderICS("Cal", []Event{{
		ID:       1,
		Name:     longName,
		StartsAt: time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 9, 15, 21, 0, 0, 0, time.UTC),
	}})

	for _, line := range strings.Split(ics, "\r\n") {
		assert.LessOrEqual(t, len(line), 76, "line %q exceeds the fold limit", line)
	}
	assert.Contains(t, ics, "\r\n ", "long lines must be folded with a continuation")
}
