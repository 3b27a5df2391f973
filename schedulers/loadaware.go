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
	"github.com/spdfg/cloudsched/constants"
	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/host"
)

// LoadAwarePolicy places onto whichever eligible target currently carries
// the least load, trading the efficiency bias of the default policy for a
// flatter utilization curve across the fleet.
type LoadAwarePolicy struct {
	BasePolicy
}

func NewLoadAwarePolicy() *LoadAwarePolicy {
	return &LoadAwarePolicy{BasePolicy{PolicyName: LoadAware}}
}

func (p *LoadAwarePolicy) Place(s *BaseScheduler, now uint64, taskID host.TaskID) (PlacementResult, error) {
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

	if m, ok := s.leastLoadedEligibleMachine(task, sla); ok {
		vm, ok := s.createAndAttachVM(task, m)
		if !ok {
			s.deferTask(taskID)
			return PlacementResult{Assigned: false}, nil
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

// leastLoadedEligibleMachine scans every machine for the eligible one
// (same machine-match criteria as the default policy) with the lowest
// recorded utilization, ties broken by efficiency order.
func (s *BaseScheduler) leastLoadedEligibleMachine(task host.TaskInfo, sla host.SLAType) (host.MachineID, bool) {
	ceiling := constants.OverloadThreshold
	if sla == host.SLA0 || sla == host.SLA1 {
		ceiling = constants.StrictSLAUtilizationCeiling
	}
	var best host.MachineID
	bestUtil := 0.0
	found := false
	for _, m := range s.reg.EfficiencyOrder() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 || info.CPU != task.CPU {
			continue
		}
		if info.MemoryUsed+task.Memory+s.host.VMMemoryOverhead() > info.MemorySize {
			continue
		}
		u := s.reg.Utilization(m)
		if u > ceiling {
			continue
		}
		if !found || u < bestUtil {
			best, bestUtil, found = m, u, true
		}
	}
	return best, found
}

func (p *LoadAwarePolicy) OnTick(s *BaseScheduler, now uint64) {}
