package components

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

func TestSummaryView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data SummaryData
		want []string
	}{
		{
			name: "nothing while running",
			data: SummaryData{Counts: model.RunSummary{Total: 2, OK: 1}, Completed: 1},
		},
		{
			name: "nothing without tasks",
			data: SummaryData{Finished: true},
		},
		{
			name: "converged run",
			data: SummaryData{Counts: model.RunSummary{Total: 2, OK: 2}, Completed: 2, Finished: true},
			want: []string{"ok=2 changed=0 failed=0 skipped=0", "Everything already in the desired state"},
		},
		{
			name: "changes applied",
			data: SummaryData{Counts: model.RunSummary{Total: 2, OK: 1, Changed: 1}, Completed: 2, Finished: true},
			want: []string{"changed=1", "Run finished with changes"},
		},
		{
			name: "failure",
			data: SummaryData{Counts: model.RunSummary{Total: 2, Failed: 1}, Completed: 1, Finished: true},
			want: []string{"failed=1", "Run finished with failures"},
		},
		{
			name: "stopped early",
			data: SummaryData{Counts: model.RunSummary{Total: 3, OK: 1}, Completed: 1, Finished: true},
			want: []string{"Run stopped after 1 of 3 tasks"},
		},
		{
			name: "check mode",
			data: SummaryData{Counts: model.RunSummary{Total: 1, WouldChange: 1}, Completed: 1, Finished: true, DryRun: true},
			want: []string{"would_change=1", "Check mode: changes pending"},
		},
		{
			name: "cancelled",
			data: SummaryData{Counts: model.RunSummary{Total: 2}, Cancelled: true},
			want: []string{"Run cancelled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			view := NewSummary(tt.data).View()
			if len(tt.want) == 0 {
				require.Empty(t, view)
				return
			}
			for _, want := range tt.want {
				require.Contains(t, view, want)
			}
		})
	}
}
