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

	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/elektronLogging"
	"github.com/spdfg/cloudsched/host"
	"github.com/spdfg/cloudsched/registry"
)

// BaseScheduler implements the 8 host callback entry points and carries the
// state every policy shares: the fleet registry, the host handle, and the
// deferred-task set. Concrete policies only decide *where* a task lands;
// everything about *when* a callback runs and how deferral/reconciliation
// work is common and lives here.
type BaseScheduler struct {
	host   host.Host
	reg    *registry.Registry
	log    *elektronLogging.Driver
	policy Policy

	deferredOrder []host.TaskID
	deferredSet   map[host.TaskID]struct{}

	ticksSinceConsolidation uint64
}

// NewBaseScheduler builds a scheduler bound to a host and a single policy.
// A fresh *registry.Registry is created per instance -- never shared --
// so tests can construct multiple independent schedulers.
func NewBaseScheduler(h host.Host, policy Policy, log *elektronLogging.Driver) *BaseScheduler {
	return &BaseScheduler{
		host:        h,
		reg:         registry.New(),
		log:         log,
		policy:      policy,
		deferredSet: make(map[host.TaskID]struct{}),
	}
}

// Registry exposes the Fleet Registry for tests and cmd/demo reporting.
func (s *BaseScheduler) Registry() *registry.Registry { return s.reg }

// Host exposes the bound host for tests and cmd/demo reporting.
func (s *BaseScheduler) Host() host.Host { return s.host }

func (s *BaseScheduler) deferTask(task host.TaskID) {
	if _, ok := s.deferredSet[task]; ok {
		return
	}
	s.deferredSet[task] = struct{}{}
	s.deferredOrder = append(s.deferredOrder, task)
}

func (s *BaseScheduler) undeferTask(task host.TaskID) {
	if _, ok := s.deferredSet[task]; !ok {
		return
	}
	delete(s.deferredSet, task)
	for i, t := range s.deferredOrder {
		if t == task {
			s.deferredOrder = append(s.deferredOrder[:i], s.deferredOrder[i+1:]...)
			break
		}
	}
}

// DeferredTasks returns the tasks currently awaiting placement, insertion
// order (oldest deferral first).
func (s *BaseScheduler) DeferredTasks() []host.TaskID {
	return append([]host.TaskID(nil), s.deferredOrder...)
}

// InitScheduler builds the Fleet Registry from the host's machine
// population and gives the policy a chance to warm the fleet (e.g.
// pre-create a VM pool).
func (s *BaseScheduler) InitScheduler(now uint64) error {
	total := s.host.MachineGetTotal()
	machines := make([]host.MachineInfo, 0, total)
	for i := 0; i < total; i++ {
		info, err := s.host.MachineGetInfo(host.MachineID(i))
		if err != nil {
			continue
		}
		if err := def.ValidateMachineInfo(info); err != nil {
			s.log.Warn(elekLog.Fields{"machine": info.ID, "err": err}, "skipping invalid machine at init")
			continue
		}
		machines = append(machines, info)
	}
	s.reg.SetMachines(machines)
	for _, m := range machines {
		s.reg.SetUtilization(m.ID, float64(m.ActiveTasks)/float64(maxInt(m.NumCPUs, 1)))
	}
	s.log.Info(elekLog.Fields{"machines": len(machines), "policy": s.policy.Name()}, "scheduler initialized")
	if warmer, ok := s.policy.(interface{ Warm(*BaseScheduler, uint64) }); ok {
		warmer.Warm(s, now)
	}
	return nil
}

// HandleNewTask dispatches NewTask(now, task) to the active policy.
func (s *BaseScheduler) HandleNewTask(now uint64, task host.TaskID) {
	if info, err := s.host.GetTaskInfo(task); err == nil {
		if verr := def.ValidateTaskInfo(now, info); verr != nil {
			s.log.Warn(elekLog.Fields{"task": task, "err": verr}, "rejecting malformed task")
			return
		}
	}

	result, err := s.policy.Place(s, now, task)
	if err != nil {
		s.log.Error(elekLog.Fields{"task": task, "err": err}, "placement failed unexpectedly")
		return
	}
	if !result.Assigned {
		s.log.Debug(elekLog.Fields{"task": task}, "task deferred")
		return
	}
	s.reg.RecordTaskVM(task, result.VM)
	s.log.Decision(elekLog.Fields{"task": task, "vm": result.VM, "now": now}, "task placed")
}

// HandleTaskCompletion reacts to a completed task: the host has already
// removed it, so there is nothing to mutate beyond forgetting the
// bookkeeping; utilization catches up at the next periodic check.
func (s *BaseScheduler) HandleTaskCompletion(now uint64, task host.TaskID) {
	s.reg.ForgetTask(task)
}

// SchedulerCheck runs the periodic reconciliation sweep.
func (s *BaseScheduler) SchedulerCheck(now uint64) {
	s.refreshUtilization()
	s.applyPowerGovernor(now)
	s.drainDeferred(now)
	s.ticksSinceConsolidation++
	s.policy.OnTick(s, now)
}

// MemoryWarning reacts to a host-reported memory pressure signal.
func (s *BaseScheduler) MemoryWarning(now uint64, machine host.MachineID) {
	s.handleMemoryWarning(now, machine)
}

// MigrationDone reacts to a completed migration.
func (s *BaseScheduler) MigrationDone(now uint64, vm host.VMID) {
	s.handleMigrationDone(now, vm)
}

// StateChangeComplete reacts to a finished S-state transition.
func (s *BaseScheduler) StateChangeComplete(now uint64, machine host.MachineID) {
	s.handleStateChangeComplete(now, machine)
}

// SLAWarning reacts to a predicted SLA violation.
func (s *BaseScheduler) SLAWarning(now uint64, task host.TaskID) {
	s.handleSLAWarning(now, task)
}

// SimulationComplete logs the final SLA/energy summary and shuts down every
// VM the registry still knows about.
func (s *BaseScheduler) SimulationComplete(now uint64) {
	for _, vm := range s.reg.VMs() {
		if err := s.host.VMShutdown(vm); err != nil {
			s.log.Warn(elekLog.Fields{"vm": vm, "err": err}, "shutdown failed at simulation end")
		}
	}
	energy, _ := s.host.MachineGetClusterEnergy()
	s.log.Info(elekLog.Fields{"now": now, "clusterEnergyKWh": energy}, "simulation complete")
}
