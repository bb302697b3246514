package audition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name       string
		start, end time.Time
		block      time.Duration
		want       []time.Time
	}{
		{
			name:  "three hour window in 20 minute blocks",
			start: at(18, 0), end: at(21, 0), block: 20 * time.Minute,
			want: []time.Time{
				at(18, 0), at(18, 20), at(18, 40),
				at(19, 0), at(19, 20), at(19, 40),
				at(20, 0), at(20, 20), at(20, 40),
			},
		},
		{
			name:  "single block window",
			start: at(10, 0), end: at(10, 30), block: 30 * time.Minute,
			want:  []time.Time{at(10, 0)},
		},
		{
			name:  "zero length window",
			start: at(10, 0), end: at(10, 0), block: 15 * time.Minute,
			want:  nil,
		},
		{
			name:  "end before start",
			start: at(12, 0), end: at(10, 0), block: 15 * time.Minute,
			want:  nil,
		},
		{
			name:  "non-positive block",
			start: at(10, 0), end: at(11, 0), block: 0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.start, tt.end, tt.block)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartitionLastBlockBeforeEnd(t *testing.T) {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	got := Partition(start, end, 15*time.Minute)
	require.Len(t, got, 8)
	assert.Equal(t, start, got[0])
	assert.True(t, got[len(got)-1].Before(end))
	for i := 1; i < len(got); i++ {
		assert.Equal(t, 15*time.Minute, got[i].Sub(got[i-1]))
	}
}
