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
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Elektron. If not, see <http://www.gnu.org/licenses/>.
//

package def

import (
	"math"
	"sort"

	"github.com/spdfg/cloudsched/host"
)

// S0Cost returns a machine's S0-state power cost used to rank it by
// efficiency. A machine with no S-state cost table (short SStateWatts
// slice) is treated as maximally inefficient.
func S0Cost(m host.MachineInfo) float64 {
	if len(m.SStateWatts) > int(host.S0) {
		return m.SStateWatts[host.S0]
	}
	return math.MaxFloat64
}

// SortByEfficiency orders machines ascending by S0 cost, breaking ties by
// machine ID. The slice is sorted in place.
func SortByEfficiency(machines []host.MachineInfo) {
	sort.SliceStable(machines, func(i, j int) bool {
		ci, cj := S0Cost(machines[i]), S0Cost(machines[j])
		if ci != cj {
			return ci < cj
		}
		return machines[i].ID < machines[j].ID
	})
}

// EfficiencyIDs is a convenience over SortByEfficiency that returns only
// the ordered machine IDs, the shape the Fleet Registry keeps as its
// canonical iteration order.
func EfficiencyIDs(machines []host.MachineInfo) []host.MachineID {
	ordered := make([]host.MachineInfo, len(machines))
	copy(ordered, machines)
	SortByEfficiency(ordered)
	ids := make([]host.MachineID, len(ordered))
	for i, m := range ordered {
		ids[i] = m.ID
	}
	return ids
}
