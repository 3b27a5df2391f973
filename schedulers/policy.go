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

package schedulers

import "github.com/spdfg/cloudsched/host"

// PlacementResult is the outcome of a policy's attempt to place a task.
type PlacementResult struct {
	Assigned bool
	// VM the task was committed to, valid only if Assigned.
	VM host.VMID
}

// Policy is the strategy interface every scheduling algorithm implements:
// a Place method that decides where a task lands, and an OnTick hook for
// per-policy periodic work. A single-policy implementation can embed
// BasePolicy and only override Place, leaving OnTick as a no-op.
type Policy interface {
	// Name identifies the policy for -listSchedPolicies / config files.
	Name() string

	// Place attempts to assign task to a VM, creating a VM/waking a
	// machine as needed. Returns (result, error) where error
	// is only non-nil for unexpected programming errors -- an
	// unplaceable task is PlacementResult{Assigned: false}, not an error.
	Place(s *BaseScheduler, now uint64, task host.TaskID) (PlacementResult, error)

	// OnTick runs at every SchedulerCheck, after the power governor has
	// already run. Implementations that don't need extra
	// per-tick behavior (e.g. FirstFit) can leave this empty.
	OnTick(s *BaseScheduler, now uint64)
}

// BasePolicy gives concrete policies a zero-cost OnTick/Name so they only
// need to implement Place.
type BasePolicy struct {
	PolicyName string
}

func (b BasePolicy) Name() string { return b.PolicyName }

func (b BasePolicy) OnTick(s *BaseScheduler, now uint64) {}
