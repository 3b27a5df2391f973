// Copyright (C) 2018 spdfg
//
// This file is part of Elektron.
//
// Elektron is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Elektron is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Elektron.  If not, see <http://www.gnu.org/licenses/>.
//

package def

import (
	"github.com/montanaflynn/stats"
	"github.com/spdfg/cloudsched/host"
)

// EfficiencyStats summarizes the S0-cost spread across a set of machines,
// the way taskUtils.go's clusterSizeAvgMMMPU summarized watts observations
// per task cluster: here the "observations" are per-machine energy costs
// rather than per-task watts.
type EfficiencyStats struct {
	Median float64
	Min    float64
	Max    float64
}

// ComputeEfficiencyStats computes the median/min/max S0 cost across
// machines. Returns ok=false if machines is empty or the median could not
// be computed.
func ComputeEfficiencyStats(machines []host.MachineInfo) (EfficiencyStats, bool) {
	if len(machines) == 0 {
		return EfficiencyStats{}, false
	}
	costs := make(stats.Float64Data, len(machines))
	min, max := S0Cost(machines[0]), S0Cost(machines[0])
	for i, m := range machines {
		c := S0Cost(m)
		costs[i] = c
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	median, err := costs.Median()
	if err != nil {
		return EfficiencyStats{}, false
	}
	return EfficiencyStats{Median: median, Min: min, Max: max}, true
}

// WorthMigratingToward reports whether a candidate target's S0 cost is at
// or below the fleet's median, which makes it worth migrating load onto.
// It returns false when every machine has the same cost (Max == Min).
// Used by the scheduler's reactive migration-target search.
func WorthMigratingToward(fleetStats EfficiencyStats, candidateCost float64) bool {
	if fleetStats.Max == fleetStats.Min {
		return false
	}
	return candidateCost <= fleetStats.Median
}
