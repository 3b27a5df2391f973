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
	"github.com/spdfg/cloudsched/constants"
	"github.com/spdfg/cloudsched/host"
)

// IsUrgent reports whether a task's deadline falls within UrgentWindow
// ticks of now. It pre-checks targetCompletion > now before subtracting,
// so the unsigned subtraction never wraps around; a task whose deadline
// is now or already passed is reported as not urgent. A targetCompletion
// of 0 means "no deadline" and is never urgent.
func IsUrgent(now, targetCompletion uint64) bool {
	if targetCompletion == 0 || targetCompletion <= now {
		return false
	}
	return targetCompletion-now <= constants.UrgentWindow
}

// DerivePriority maps a task's SLA class and deadline to a scheduling
// priority: HIGH for SLA0 or an urgent deadline, MID for SLA1, LOW
// otherwise. Urgency always overrides a lower class.
func DerivePriority(sla host.SLAType, now, targetCompletion uint64) host.Priority {
	priority := host.LOW
	switch sla {
	case host.SLA0:
		priority = host.HIGH
	case host.SLA1:
		priority = host.MID
	}
	if IsUrgent(now, targetCompletion) {
		priority = host.HIGH
	}
	return priority
}
