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

import (
	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/host"
)

// FirstFitPolicy takes the first compatible VM or eligible machine it
// finds, in iteration order, without ranking by load or efficiency. It
// stubs the optional migration/consolidation hooks.
type FirstFitPolicy struct {
	BasePolicy
}

func NewFirstFitPolicy() *FirstFitPolicy {
	return &FirstFitPolicy{BasePolicy{PolicyName: FirstFit}}
}

func (p *FirstFitPolicy) Place(s *BaseScheduler, now uint64, taskID host.TaskID) (PlacementResult, error) {
	task, err := s.host.GetTaskInfo(taskID)
	if err != nil {
		s.deferTask(taskID)
		return PlacementResult{}, nil
	}
	sla, err := s.host.RequiredSLA(taskID)
	if err != nil {
		s.deferTask(taskID)
		return PlacementResult{}, nil
	}
	priority := def.DerivePriority(sla, now, task.TargetCompletion)

	for _, vm := range s.reg.VMs() {
		if s.reg.IsPendingMigration(vm) {
			continue
		}
		info, err := s.host.VMGetInfo(vm)
		if err != nil || !s.vmCompatible(info, task) {
			continue
		}
		s.undeferTask(taskID)
		if s.commit(taskID, vm, priority, sla) {
			return PlacementResult{Assigned: true, VM: vm}, nil
		}
		return PlacementResult{Assigned: false}, nil
	}

	for _, m := range s.reg.Machines() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 || info.CPU != task.CPU {
			continue
		}
		if info.MemoryUsed+task.Memory+s.host.VMMemoryOverhead() > info.MemorySize {
			continue
		}
		vm, ok := s.createAndAttachVM(task, m)
		if !ok {
			continue
		}
		s.undeferTask(taskID)
		if s.commit(taskID, vm, priority, sla) {
			return PlacementResult{Assigned: true, VM: vm}, nil
		}
		return PlacementResult{Assigned: false}, nil
	}

	if m, ok := s.findWakeableMachine(task); ok {
		_ = s.host.MachineSetState(m, host.S0)
	}
	s.deferTask(taskID)
	return PlacementResult{Assigned: false}, nil
}
