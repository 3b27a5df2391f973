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

package schedulers

import (
	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/host"
)

// RoundRobinPolicy cycles through machines in efficiency order regardless
// of current load, giving every eligible machine an equal share of new VM
// creations over time.
type RoundRobinPolicy struct {
	BasePolicy
	cursor int
}

func NewRoundRobinPolicy() *RoundRobinPolicy {
	return &RoundRobinPolicy{BasePolicy: BasePolicy{PolicyName: RoundRobin}}
}

func (p *RoundRobinPolicy) Place(s *BaseScheduler, now uint64, taskID host.TaskID) (PlacementResult, error) {
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

	if vm, ok := s.findCompatibleVM(task, sla); ok {
		s.undeferTask(taskID)
		if s.commit(taskID, vm, priority, sla) {
			return PlacementResult{Assigned: true, VM: vm}, nil
		}
		return PlacementResult{Assigned: false}, nil
	}

	order := s.reg.EfficiencyOrder()
	if len(order) > 0 {
		for i := 0; i < len(order); i++ {
			idx := (p.cursor + i) % len(order)
			m := order[idx]
			info, err := s.host.MachineGetInfo(m)
			if err != nil || info.SState != host.S0 || info.CPU != task.CPU {
				continue
			}
			if info.MemoryUsed+task.Memory+s.host.VMMemoryOverhead() > info.MemorySize {
				continue
			}
			p.cursor = (idx + 1) % len(order)
			vm, ok := s.createAndAttachVM(task, m)
			if !ok {
				break
			}
			s.undeferTask(taskID)
			if s.commit(taskID, vm, priority, sla) {
				return PlacementResult{Assigned: true, VM: vm}, nil
			}
			return PlacementResult{Assigned: false}, nil
		}
	}

	if m, ok := s.findWakeableMachine(task); ok {
		_ = s.host.MachineSetState(m, host.S0)
	}
	s.deferTask(taskID)
	return PlacementResult{Assigned: false}, nil
}

func (p *RoundRobinPolicy) OnTick(s *BaseScheduler, now uint64) {}
