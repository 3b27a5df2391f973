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

func TestIsUrgent(t *testing.T) {
	assert.False(t, IsUrgent(10, 0), "no deadline is never urgent")
	assert.False(t, IsUrgent(10, 5), "deadline already passed is never urgent")
	assert.False(t, IsUrgent(0, 12000001), "deadline outside the urgent window")
	assert.True(t, IsUrgent(0, 12000000), "deadline exactly at the urgent window boundary")
	assert.True(t, IsUrgent(1000000, 13000000), "deadline within the urgent window")
}

func TestDerivePriority(t *testing.T) {
	assert.Equal(t, host.HIGH, DerivePriority(host.SLA0, 0, 0))
	assert.Equal(t, host.MID, DerivePriority(host.SLA1, 0, 0))
	assert.Equal(t, host.LOW, DerivePriority(host.SLA2, 0, 0))
	assert.Equal(t, host.LOW, DerivePriority(host.SLA3, 0, 0))
	// Urgency overrides a lower-class SLA.
	assert.Equal(t, host.HIGH, DerivePriority(host.SLA2, 10, 13000000))
}
