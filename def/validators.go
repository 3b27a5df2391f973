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
	"github.com/pkg/errors"

	"github.com/spdfg/cloudsched/host"
	"github.com/spdfg/cloudsched/utilities/validation"
)

// ValidateTaskInfo checks the shape invariants a task must satisfy before
// the scheduler acts on it: non-zero memory footprint, and a target
// completion that is either 0 (no deadline) or not earlier than now.
func ValidateTaskInfo(now uint64, t host.TaskInfo) error {
	return validation.Validate("invalid task",
		func() error {
			if t.Memory == 0 {
				return errors.New("task memory footprint must be non-zero")
			}
			return nil
		},
		func() error {
			if t.TargetCompletion != 0 && t.TargetCompletion < now {
				return errors.Errorf("target completion %d already passed now %d", t.TargetCompletion, now)
			}
			return nil
		},
	)
}

// ValidateMachineInfo checks the shape invariants a machine snapshot must
// satisfy: at least one core, and used memory never exceeding capacity.
func ValidateMachineInfo(m host.MachineInfo) error {
	return validation.Validate("invalid machine",
		func() error {
			if m.NumCPUs <= 0 {
				return errors.New("machine must have at least one core")
			}
			return nil
		},
		func() error {
			if m.MemoryUsed > m.MemorySize {
				return errors.Errorf("memory_used %d exceeds memory_size %d", m.MemoryUsed, m.MemorySize)
			}
			return nil
		},
	)
}
