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

// refreshUtilization re-inspects every machine the registry knows about; a
// failed inspect drops the machine from the active set rather than leaving
// it with a stale sample.
func (s *BaseScheduler) refreshUtilization() {
	for _, m := range s.reg.Machines() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil {
			s.reg.DeactivateMachine(m)
			continue
		}
		if info.SState != host.S0 {
			if s.reg.IsMachineActive(m) {
				s.reg.DeactivateMachine(m)
			}
			continue
		}
		if !s.reg.IsMachineActive(m) {
			s.reg.ActivateMachine(m)
		}
		s.reg.SetUtilization(m, float64(info.ActiveTasks)/float64(maxInt(info.NumCPUs, 1)))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// drainDeferred retries placement for every deferred task, in deferral
// order; successful ones leave the set.
func (s *BaseScheduler) drainDeferred(now uint64) {
	for _, task := range s.DeferredTasks() {
		result, err := s.policy.Place(s, now, task)
		if err != nil {
			s.log.Error(elekLog.Fields{"task": task, "err": err}, "deferred placement failed unexpectedly")
			continue
		}
		if result.Assigned {
			s.undeferTask(task)
			s.reg.RecordTaskVM(task, result.VM)
			s.log.Decision(elekLog.Fields{"task": task, "vm": result.VM, "now": now}, "deferred task placed")
		}
	}
}

// fleetEfficiencyStats gathers MachineInfo for every active machine and
// summarizes the S0-cost spread, so a migration target can be judged
// against the fleet's cheap tail rather than in isolation.
func (s *BaseScheduler) fleetEfficiencyStats() (def.EfficiencyStats, bool) {
	machines := make([]host.MachineInfo, 0, len(s.reg.ActiveMachines()))
	for _, m := range s.reg.ActiveMachines() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil {
			continue
		}
		machines = append(machines, info)
	}
	return def.ComputeEfficiencyStats(machines)
}

// findMigrationTarget finds an eligible machine in efficiency order,
// excluding vm's current machine, with room for vm's overhead plus the
// memory of its active tasks, under the overload threshold, and whose S0
// cost is worth migrating toward given the fleet's efficiency spread.
// Falls back to waking a non-S0 machine if none in S0 qualifies.
func (s *BaseScheduler) findMigrationTarget(vm host.VMID, now uint64) (host.MachineID, bool) {
	if !s.reg.CooldownElapsed(vm, now, constants.MigrationCooldown) {
		return 0, false
	}
	vmInfo, err := s.host.VMGetInfo(vm)
	if err != nil {
		return 0, false
	}

	required := s.host.VMMemoryOverhead()
	for _, t := range vmInfo.ActiveTasks {
		mem, err := s.host.GetTaskMemory(t)
		if err != nil {
			continue
		}
		required += mem
	}

	fleetStats, haveFleetStats := s.fleetEfficiencyStats()

	for _, m := range s.reg.EfficiencyOrder() {
		if vmInfo.Attached && m == vmInfo.MachineID {
			continue
		}
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 || info.CPU != vmInfo.CPU {
			continue
		}
		if info.MemoryUsed+required > info.MemorySize {
			continue
		}
		if s.reg.Utilization(m) >= constants.OverloadThreshold {
			continue
		}
		if haveFleetStats && !def.WorthMigratingToward(fleetStats, def.S0Cost(info)) {
			continue
		}
		return m, true
	}

	for _, m := range s.reg.EfficiencyOrder() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState == host.S0 || info.CPU != vmInfo.CPU {
			continue
		}
		if err := s.host.MachineSetState(m, host.S0); err != nil {
			continue
		}
		return 0, false // woken asynchronously; migration retried once it reports S0
	}

	return 0, false
}

// consolidate runs every ConsolidationInterval ticks: any active, idle,
// underloaded machine may be drained and demoted, subject to the
// minimum-active floor. Reuses the power governor's demotion path so the
// floor check and VM teardown stay in one place.
func (s *BaseScheduler) consolidate(now uint64) {
	if s.ticksSinceConsolidation < constants.ConsolidationInterval {
		return
	}
	s.ticksSinceConsolidation = 0
	for _, m := range s.reg.ActiveMachines() {
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 {
			continue
		}
		if s.reg.SmoothedUtilization(m) >= constants.UnderloadThreshold {
			continue
		}
		s.maybeDemote(now, m, info)
	}
}
