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
	"testing"

	"github.com/spdfg/cloudsched/host"
	"github.com/stretchr/testify/assert"
)

func mach(id host.MachineID, s0cost float64) host.MachineInfo {
	return host.MachineInfo{ID: id, SStateWatts: []float64{s0cost, 0, 0, 0, 0, 0, 0}}
}

func TestSortByEfficiencyOrdersAscendingWithIDTiebreak(t *testing.T) {
	machines := []host.MachineInfo{
		mach(3, 50),
		mach(1, 10),
		mach(2, 10),
		mach(4, 30),
	}
	SortByEfficiency(machines)
	ids := make([]host.MachineID, len(machines))
	for i, m := range machines {
		ids[i] = m.ID
	}
	assert.Equal(t, []host.MachineID{1, 2, 4, 3}, ids)
}

func TestS0CostFallsBackWhenNoSStateTable(t *testing.T) {
	m := host.MachineInfo{ID: 1}
	assert.True(t, S0Cost(m) > 1e300)
}
