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
	"github.com/spdfg/cloudsched/host"
)

// handleMigrationDone clears the pending-migration record, raises the new
// host to P0 if it now carries high-priority work and isn't already
// there, and triggers a reconciliation sweep.
func (s *BaseScheduler) handleMigrationDone(now uint64, vm host.VMID) {
	target, ok := s.reg.PendingMigrationTarget(vm)
	if !ok {
		s.log.Warn(elekLog.Fields{"vm": vm}, "unexpected migration completion, ignored")
		return
	}
	s.reg.EndMigration(vm, now)

	info, err := s.host.MachineGetInfo(target)
	if err == nil && info.SState == host.S0 && info.PState != host.P0 {
		if s.reg.HighPriorityTasksOn(s.host, target) {
			if err := s.host.MachineSetCorePerformance(target, 0, host.P0); err != nil {
				s.log.Warn(elekLog.Fields{"machine": target, "err": err}, "post-migration P0 raise failed")
			}
		}
	}
	s.log.Decision(elekLog.Fields{"vm": vm, "machine": target, "now": now}, "migration completed")
	s.SchedulerCheck(now)
}

// handleMemoryWarning identifies the VM with the most active tasks on the
// machine as a migration candidate, and raises the machine's cores to P0
// immediately.
func (s *BaseScheduler) handleMemoryWarning(now uint64, machine host.MachineID) {
	if err := s.host.MachineSetCorePerformance(machine, 0, host.P0); err != nil {
		s.log.Warn(elekLog.Fields{"machine": machine, "err": err}, "P0 raise on memory warning failed")
	}

	var candidate host.VMID
	maxLoad := -1
	found := false
	for _, vm := range s.reg.VMs() {
		info, err := s.host.VMGetInfo(vm)
		if err != nil || !info.Attached || info.MachineID != machine {
			continue
		}
		if s.reg.IsPendingMigration(vm) {
			continue
		}
		if load := len(info.ActiveTasks); load > maxLoad {
			candidate, maxLoad, found = vm, load, true
		}
	}
	if !found {
		s.log.Warn(elekLog.Fields{"machine": machine}, "memory warning with no migration candidate")
		return
	}

	target, ok := s.findMigrationTarget(candidate, now)
	if !ok {
		s.log.Debug(elekLog.Fields{"vm": candidate, "machine": machine}, "no standby migration target available")
		return
	}
	s.issueMigration(candidate, target, now)
}

// handleSLAWarning reacts to a predicted SLA violation, escalating
// priority and power state by SLA class, and migrating off an overloaded
// machine for the strict classes.
func (s *BaseScheduler) handleSLAWarning(now uint64, task host.TaskID) {
	vm, machine, ok := s.locateTask(task)
	if !ok {
		s.log.Warn(elekLog.Fields{"task": task}, "SLA warning for unlocatable task")
		return
	}

	sla, err := s.host.RequiredSLA(task)
	if err != nil {
		return
	}

	switch sla {
	case host.SLA0, host.SLA1:
		if err := s.host.SetTaskPriority(task, host.HIGH); err != nil {
			s.log.Warn(elekLog.Fields{"task": task, "err": err}, "priority raise failed")
		}
		if err := s.host.MachineSetCorePerformance(machine, 0, host.P0); err != nil {
			s.log.Warn(elekLog.Fields{"machine": machine, "err": err}, "P0 raise on SLA warning failed")
		}
		if s.reg.Utilization(machine) > constants.OverloadThreshold && !s.reg.IsPendingMigration(vm) {
			if target, ok := s.findMigrationTarget(vm, now); ok {
				s.issueMigration(vm, target, now)
			}
		}
	case host.SLA2:
		priority, err := s.host.GetTaskPriority(task)
		if err == nil && priority == host.LOW {
			if err := s.host.SetTaskPriority(task, host.MID); err != nil {
				s.log.Warn(elekLog.Fields{"task": task, "err": err}, "priority raise failed")
			}
		}
	case host.SLA3:
		// Not acted upon.
	}
}

// handleStateChangeComplete reacts to a finished S-state transition:
// activates and bootstraps a freshly woken machine, deactivates one that
// just reached S5, and otherwise zeroes its utilization sample.
func (s *BaseScheduler) handleStateChangeComplete(now uint64, machine host.MachineID) {
	info, err := s.host.MachineGetInfo(machine)
	if err != nil {
		return
	}

	switch info.SState {
	case host.S0:
		s.reg.ActivateMachine(machine)
		if err := s.host.MachineSetCorePerformance(machine, 0, host.P1); err != nil {
			s.log.Warn(elekLog.Fields{"machine": machine, "err": err}, "initial P1 set failed")
		}
		if info.ActiveVMs == 0 {
			s.bootstrapVMs(machine, info.CPU)
		}
		s.drainDeferred(now)
	case host.S5:
		s.reg.DeactivateMachine(machine)
	default:
		s.reg.SetUtilization(machine, 0)
	}
}

// bootstrapVMs creates the initial VM bouquet for a freshly woken,
// VM-less machine: a CPU-family-appropriate mix of VM types so the fleet
// has somewhere to place the first wave of tasks without waiting on a
// second create/attach round-trip.
func (s *BaseScheduler) bootstrapVMs(machine host.MachineID, cpu host.CPUType) {
	var bouquet []host.VMType
	switch cpu {
	case host.X86, host.ARM:
		bouquet = []host.VMType{host.WINDOWS, host.WINDOWS, host.LINUX, host.LINUX_RT}
	case host.POWER:
		bouquet = []host.VMType{host.AIX, host.AIX, host.LINUX, host.LINUX_RT}
	default:
		bouquet = []host.VMType{host.LINUX, host.LINUX, host.LINUX_RT, host.LINUX_RT}
	}
	for _, vt := range bouquet {
		vm, err := s.host.VMCreate(vt, cpu)
		if err != nil {
			s.log.Warn(elekLog.Fields{"machine": machine, "vmType": vt, "err": err}, "bouquet VM create failed")
			continue
		}
		if err := s.host.VMAttach(vm, machine); err != nil {
			s.log.Warn(elekLog.Fields{"machine": machine, "vm": vm, "err": err}, "bouquet VM attach failed")
			continue
		}
		s.reg.PushVM(vm)
	}
}

// locateTask finds the VM and machine currently hosting task by linear
// scan, skipping VMs pending migration.
func (s *BaseScheduler) locateTask(task host.TaskID) (host.VMID, host.MachineID, bool) {
	for _, vm := range s.reg.VMs() {
		if s.reg.IsPendingMigration(vm) {
			continue
		}
		info, err := s.host.VMGetInfo(vm)
		if err != nil || !info.Attached {
			continue
		}
		for _, t := range info.ActiveTasks {
			if t == task {
				return vm, info.MachineID, true
			}
		}
	}
	return 0, 0, false
}

// issueMigration records vm -> target in the pending-migration table
// before calling VMMigrate, so a concurrent inspect never observes a
// migration in flight without a recorded target.
func (s *BaseScheduler) issueMigration(vm host.VMID, target host.MachineID, now uint64) {
	s.reg.BeginMigration(vm, target)
	if err := s.host.VMMigrate(vm, target); err != nil {
		s.log.Warn(elekLog.Fields{"vm": vm, "target": target, "err": err}, "migration issue failed")
		s.reg.EndMigration(vm, now)
		return
	}
	s.log.Decision(elekLog.Fields{"vm": vm, "target": target, "now": now}, "migration issued")
}
