package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProgress(t *testing.T) {
	t.Parallel()

	p := NewProgress(4)
	require.Equal(t, 4, p.total)
	require.Equal(t, 32, p.bar.Width)
}

func TestProgressRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		completed int
		want      float64
	}{
		{"zero total", 0, 0, 0},
		{"partial", 4, 1, 0.25},
		{"complete", 4, 4, 1},
		{"overflow is clamped", 4, 9, 1},
		{"negative is clamped", 4, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, NewProgress(tt.total).Ratio(tt.completed), 1e-9)
		})
	}
}

func TestProgressView(t *testing.T) {
	t.Parallel()

	require.Contains(t, NewProgress(0).View(0), "0/0 tasks")
	require.Contains(t, NewProgress(3).View(2), "2/3 tasks")
}
