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
	elekLog "github.com/sirupsen/logrus"

	"github.com/spdfg/cloudsched/constants"
	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/host"
)

// vmCompatible checks VM-match eligibility: attached, CPU/VM type match,
// its machine is S0, and the machine has room for one more task's memory.
func (s *BaseScheduler) vmCompatible(vm host.VMInfo, task host.TaskInfo) bool {
	if !vm.Attached || vm.CPU != task.CPU || vm.Type != task.VMType {
		return false
	}
	m, err := s.host.MachineGetInfo(vm.MachineID)
	if err != nil || m.SState != host.S0 {
		return false
	}
	return m.MemoryUsed+task.Memory <= m.MemorySize
}

// findCompatibleVM searches for a VM match: among compatible, non-migrating
// VMs, an idle one short-circuits for SLA0/SLA1; otherwise the one with the
// fewest active tasks wins, ties broken by VM iteration (insertion) order.
func (s *BaseScheduler) findCompatibleVM(task host.TaskInfo, sla host.SLAType) (host.VMID, bool) {
	var best host.VMID
	bestLoad := -1
	found := false
	for _, vm := range s.reg.VMs() {
		if s.reg.IsPendingMigration(vm) {
			continue
		}
		info, err := s.host.VMGetInfo(vm)
		if err != nil || !s.vmCompatible(info, task) {
			continue
		}
		load := len(info.ActiveTasks)
		if load == 0 && (sla == host.SLA0 || sla == host.SLA1) {
			return vm, true
		}
		if !found || load < bestLoad {
			best, bestLoad, found = vm, load, true
		}
	}
	return best, found
}

// findMachineForNewVM searches for a machine match: the first machine in
// efficiency order that is S0, CPU-matching, has room for a new VM plus
// the task, and whose utilization is at or under the ceiling (tighter for
// SLA0/SLA1).
func (s *BaseScheduler) findMachineForNewVM(task host.TaskInfo, sla host.SLAType) (host.MachineID, bool) {
	ceiling := constants.OverloadThreshold
	if sla == host.SLA0 || sla == host.SLA1 {
		ceiling = constants.StrictSLAUtilizationCeiling
	}
	for _, m := range s.reg.EfficiencyOrder() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 || info.CPU != task.CPU {
			continue
		}
		if info.MemoryUsed+task.Memory+s.host.VMMemoryOverhead() > info.MemorySize {
			continue
		}
		if s.reg.Utilization(m) > ceiling {
			continue
		}
		return m, true
	}
	return 0, false
}

// findWakeableMachine finds a machine to wake: the first non-S0 machine in
// efficiency order matching CPU family and with enough memory headroom for
// a VM attach once it reports S0.
func (s *BaseScheduler) findWakeableMachine(task host.TaskInfo) (host.MachineID, bool) {
	for _, m := range s.reg.EfficiencyOrder() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState == host.S0 || info.CPU != task.CPU {
			continue
		}
		if info.MemoryUsed+task.Memory+s.host.VMMemoryOverhead() > info.MemorySize {
			continue
		}
		return m, true
	}
	return 0, false
}

// commit adds the task to the target VM, raising core 0 to P0 immediately
// for SLA0/SLA1 -- regardless of the derived priority, since a non-urgent
// SLA1 task still derives to MID. A memory-race rejection from the host
// is absorbed: the task is re-deferred rather than propagated as an
// error.
func (s *BaseScheduler) commit(task host.TaskID, vm host.VMID, priority host.Priority, sla host.SLAType) bool {
	if err := s.host.VMAddTask(vm, task, priority); err != nil {
		s.log.Warn(elekLog.Fields{"task": task, "vm": vm, "err": err}, "memory race on commit, task re-deferred")
		s.deferTask(task)
		return false
	}
	if sla == host.SLA0 || sla == host.SLA1 {
		if info, err := s.host.VMGetInfo(vm); err == nil {
			if err := s.host.MachineSetCorePerformance(info.MachineID, 0, host.P0); err != nil {
				s.log.Warn(elekLog.Fields{"machine": info.MachineID, "err": err}, "failed to raise core to P0 on commit")
			}
		}
	}
	return true
}

// createAndAttachVM creates a VM of the task's required type/CPU and
// attaches it to m, registering it in the fleet registry. On any mutator
// failure the partial VM is discarded.
func (s *BaseScheduler) createAndAttachVM(task host.TaskInfo, m host.MachineID) (host.VMID, bool) {
	vm, err := s.host.VMCreate(task.VMType, task.CPU)
	if err != nil {
		s.log.Warn(elekLog.Fields{"machine": m, "err": err}, "VM create failed")
		return 0, false
	}
	if err := s.host.VMAttach(vm, m); err != nil {
		s.log.Warn(elekLog.Fields{"vm": vm, "machine": m, "err": err}, "VM attach failed, discarding")
		return 0, false
	}
	s.reg.PushVM(vm)
	return vm, true
}

// PlaceEfficiency runs VM match, then machine match, then wake-a-machine,
// in order, stopping at the first successful step. It is the Place
// implementation of the default efficiency+migration policy; lighter
// policies reuse only the pieces they need.
func (s *BaseScheduler) PlaceEfficiency(now uint64, taskID host.TaskID) (PlacementResult, error) {
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

	if m, ok := s.findMachineForNewVM(task, sla); ok {
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
		if err := s.host.MachineSetState(m, host.S0); err != nil {
			s.log.Warn(elekLog.Fields{"machine": m, "err": err}, "wake request failed")
		}
		s.deferTask(taskID)
		return PlacementResult{Assigned: false}, nil
	}

	s.deferTask(taskID)
	return PlacementResult{Assigned: false}, nil
}
