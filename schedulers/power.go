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

// targetPState picks the per-core P-state for a machine given whether it
// carries high-priority work, its active task count, and its utilization.
func targetPState(hasHighPriority bool, activeTasks int, utilization float64) host.PState {
	if activeTasks == 0 {
		return host.P3
	}
	if hasHighPriority {
		return host.P0
	}
	switch {
	case utilization > constants.PStateHighUtilization:
		return host.P0
	case utilization > constants.PStateMidUtilization:
		return host.P1
	default:
		return host.P2
	}
}

// applyPowerGovernor runs both power-governing tasks over every active
// machine: P-state selection, and S-state demotion of idle, underloaded
// machines, subject to the minimum-active floor.
func (s *BaseScheduler) applyPowerGovernor(now uint64) {
	for _, m := range s.reg.ActiveMachines() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 {
			continue
		}
		hasHigh := s.reg.HighPriorityTasksOn(s.host, m)
		target := targetPState(hasHigh, info.ActiveTasks, s.reg.Utilization(m))
		if info.PState != target {
			if err := s.host.MachineSetCorePerformance(m, 0, target); err != nil {
				s.log.Warn(elekLog.Fields{"machine": m, "err": err}, "P-state change failed")
				continue
			}
			s.log.Decision(elekLog.Fields{"machine": m, "from": info.PState, "to": target, "now": now}, "P-state changed")
		}

		s.maybeDemote(now, m, info)
	}
}

// maybeDemote demotes m to S0i1 when it has zero active tasks, utilization
// below UnderloadThreshold, and the active tier would still have at least
// MinActiveMachines after demotion.
func (s *BaseScheduler) maybeDemote(now uint64, m host.MachineID, info host.MachineInfo) {
	if info.ActiveTasks != 0 || s.reg.Utilization(m) >= constants.UnderloadThreshold {
		return
	}
	if s.reg.ActiveMachineCount()-1 < constants.MinActiveMachines {
		return
	}
	s.shutdownVMsOn(m, info)
	if err := s.host.MachineSetState(m, host.S0i1); err != nil {
		s.log.Warn(elekLog.Fields{"machine": m, "err": err}, "demotion request failed")
		return
	}
	s.reg.DeactivateMachine(m)
	s.log.Decision(elekLog.Fields{"machine": m, "now": now}, "machine demoted to S0i1")
}

// shutdownVMsOn shuts down every VM attached to m before the machine is
// demoted; the Power Governor only drops idle machines, it never migrates.
func (s *BaseScheduler) shutdownVMsOn(m host.MachineID, info host.MachineInfo) {
	for _, vm := range s.reg.VMs() {
		vmInfo, err := s.host.VMGetInfo(vm)
		if err != nil || !vmInfo.Attached || vmInfo.MachineID != m {
			continue
		}
		if s.reg.IsPendingMigration(vm) {
			continue
		}
		if err := s.host.VMShutdown(vm); err != nil {
			s.log.Warn(elekLog.Fields{"vm": vm, "machine": m, "err": err}, "shutdown before demotion failed")
			continue
		}
		s.reg.RemoveVM(vm)
	}
}
