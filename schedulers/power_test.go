package schedulers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spdfg/cloudsched/host"
)

func TestTargetPState(t *testing.T) {
	cases := []struct {
		name        string
		highPri     bool
		activeTasks int
		utilization float64
		want        host.PState
	}{
		{"no tasks", false, 0, 0.9, host.P3},
		{"high priority overrides", true, 1, 0.1, host.P0},
		{"above high threshold", false, 1, 0.8, host.P0},
		{"mid range", false, 1, 0.5, host.P1},
		{"low utilization", false, 1, 0.1, host.P2},
		{"boundary at mid threshold", false, 1, 0.30, host.P2},
		{"boundary at high threshold", false, 1, 0.75, host.P1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, targetPState(c.highPri, c.activeTasks, c.utilization))
		})
	}
}
