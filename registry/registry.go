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

// Package registry is the fleet registry: the scheduler's only mutable
// state (known machines and VMs, active set, utilization samples, pending
// migrations, efficiency order), split into its own package so a test can
// construct a fresh one per case and the scheduler never touches a true
// global.
package registry

import (
	"github.com/spdfg/cloudsched/def"
	"github.com/spdfg/cloudsched/host"
	"github.com/spdfg/cloudsched/utilities/runAvg"
)

// Registry owns every piece of state the scheduler mutates between
// callbacks. It never calls into the host itself; callers pass in whatever
// host.MachineInfo/VMInfo snapshots they already fetched.
type Registry struct {
	machineIDs       []host.MachineID
	vmIDs            []host.VMID // insertion order, the canonical VM iteration order
	activeMachines   map[host.MachineID]struct{}
	utilization      map[host.MachineID]float64
	pendingMigration map[host.VMID]host.MachineID
	lastMigration    map[host.VMID]uint64
	efficiencyOrder  []host.MachineID
	taskVM           map[host.TaskID]host.VMID

	// smoothing window (ticks of periodic-check history) applied to
	// utilization samples for consolidation decisions only; the raw
	// sample returned by Utilization always feeds the P-state rules
	// directly.
	smoothingWindow int
	smoothed        map[host.MachineID]*runAvg.Tracker
}

func New() *Registry {
	return &Registry{
		activeMachines:   make(map[host.MachineID]struct{}),
		utilization:      make(map[host.MachineID]float64),
		pendingMigration: make(map[host.VMID]host.MachineID),
		lastMigration:    make(map[host.VMID]uint64),
		smoothed:         make(map[host.MachineID]*runAvg.Tracker),
		taskVM:           make(map[host.TaskID]host.VMID),
		smoothingWindow:  5,
	}
}

// SetSmoothingWindow controls how many PeriodicCheck samples
// SmoothedUtilization averages over. 0 disables smoothing entirely.
func (r *Registry) SetSmoothingWindow(n int) {
	r.smoothingWindow = n
}

// SetMachines records the full machine population and the efficiency order
// computed over it. Call once at InitScheduler.
func (r *Registry) SetMachines(machines []host.MachineInfo) {
	r.machineIDs = make([]host.MachineID, len(machines))
	for i, m := range machines {
		r.machineIDs[i] = m.ID
		r.utilization[m.ID] = 0.0
		if m.SState == host.S0 {
			r.activeMachines[m.ID] = struct{}{}
		}
	}
	r.efficiencyOrder = def.EfficiencyIDs(machines)
}

// Machines returns every known machine ID, insertion order (Init order).
func (r *Registry) Machines() []host.MachineID {
	return append([]host.MachineID(nil), r.machineIDs...)
}

// EfficiencyOrder returns machine IDs ascending by S0 cost.
func (r *Registry) EfficiencyOrder() []host.MachineID {
	return append([]host.MachineID(nil), r.efficiencyOrder...)
}

// VMs returns every known VM ID in insertion order, the canonical
// iteration order the placement algorithms walk.
func (r *Registry) VMs() []host.VMID {
	return append([]host.VMID(nil), r.vmIDs...)
}

// PushVM records a newly created VM. Idempotent if called twice for the
// same ID.
func (r *Registry) PushVM(vm host.VMID) {
	for _, v := range r.vmIDs {
		if v == vm {
			return
		}
	}
	r.vmIDs = append(r.vmIDs, vm)
}

// RemoveVM drops a VM from the registry (e.g. after it is shut down), and
// clears any pending-migration/last-migration bookkeeping for it.
func (r *Registry) RemoveVM(vm host.VMID) {
	for i, v := range r.vmIDs {
		if v == vm {
			r.vmIDs = append(r.vmIDs[:i], r.vmIDs[i+1:]...)
			break
		}
	}
	delete(r.pendingMigration, vm)
	delete(r.lastMigration, vm)
}

// IsMachineActive reports set membership only; the host remains the
// source of truth for the machine's actual S-state.
func (r *Registry) IsMachineActive(m host.MachineID) bool {
	_, ok := r.activeMachines[m]
	return ok
}

// ActivateMachine marks a machine active and resets its utilization
// sample.
func (r *Registry) ActivateMachine(m host.MachineID) {
	r.activeMachines[m] = struct{}{}
	r.utilization[m] = 0.0
}

// DeactivateMachine clears set membership and zeroes utilization.
func (r *Registry) DeactivateMachine(m host.MachineID) {
	delete(r.activeMachines, m)
	r.utilization[m] = 0.0
}

// ActiveMachines returns the current active set as a slice, in efficiency
// order (a deterministic, reproducible iteration order).
func (r *Registry) ActiveMachines() []host.MachineID {
	var active []host.MachineID
	for _, id := range r.efficiencyOrder {
		if r.IsMachineActive(id) {
			active = append(active, id)
		}
	}
	return active
}

// ActiveMachineCount is a cheap version of len(ActiveMachines()) for
// floor checks.
func (r *Registry) ActiveMachineCount() int {
	return len(r.activeMachines)
}

// Utilization returns the last-recorded active_tasks/num_cpus ratio for a
// machine.
func (r *Registry) Utilization(m host.MachineID) float64 {
	return r.utilization[m]
}

// SetUtilization records a fresh utilization sample, refreshed each
// periodic check, and folds it into that machine's smoothed running
// average.
func (r *Registry) SetUtilization(m host.MachineID, u float64) {
	r.utilization[m] = u
	tr, ok := r.smoothed[m]
	if !ok {
		tr = runAvg.New(r.smoothingWindow)
		r.smoothed[m] = tr
	}
	tr.Add(u)
}

// SmoothedUtilization returns the windowed running average of a machine's
// utilization samples, used by consolidation to avoid reacting to a
// single noisy tick; it never gates P-state selection, which always uses
// the exact latest sample from Utilization.
func (r *Registry) SmoothedUtilization(m host.MachineID) float64 {
	tr, ok := r.smoothed[m]
	if !ok {
		return r.utilization[m]
	}
	avg, err := tr.Average()
	if err != nil {
		return r.utilization[m]
	}
	return avg
}

// IsPendingMigration reports whether vm has an in-flight migration.
func (r *Registry) IsPendingMigration(vm host.VMID) bool {
	_, ok := r.pendingMigration[vm]
	return ok
}

// PendingMigrationTarget returns the target machine a VM is migrating to,
// if any.
func (r *Registry) PendingMigrationTarget(vm host.VMID) (host.MachineID, bool) {
	target, ok := r.pendingMigration[vm]
	return target, ok
}

// BeginMigration records vm -> target before the caller issues
// host.VMMigrate, so the pending-migration table never lags the actual
// migration request.
func (r *Registry) BeginMigration(vm host.VMID, target host.MachineID) {
	r.pendingMigration[vm] = target
}

// EndMigration erases the pending-migration record and stamps the
// completion time, enforcing MIGRATION_COOLDOWN on the next
// FindMigrationTarget call for this VM.
func (r *Registry) EndMigration(vm host.VMID, now uint64) {
	delete(r.pendingMigration, vm)
	r.lastMigration[vm] = now
}

// CooldownElapsed reports whether at least MigrationCooldown ticks have
// passed since vm's last completed migration. A VM that has never
// migrated is always past its cooldown.
func (r *Registry) CooldownElapsed(vm host.VMID, now uint64, cooldown uint64) bool {
	last, ok := r.lastMigration[vm]
	if !ok {
		return true
	}
	return now-last >= cooldown
}

// LastMigrationTime returns when vm last completed a migration, if ever.
func (r *Registry) LastMigrationTime(vm host.VMID) (uint64, bool) {
	t, ok := r.lastMigration[vm]
	return t, ok
}

// RecordTaskVM remembers which VM a task was committed to.
// HandleTaskCompletion only forgets the record; utilization is refreshed
// at the next PeriodicCheck.
func (r *Registry) RecordTaskVM(task host.TaskID, vm host.VMID) {
	if r.taskVM == nil {
		r.taskVM = make(map[host.TaskID]host.VMID)
	}
	r.taskVM[task] = vm
}

// TaskVM returns the VM a task was last recorded on, if any.
func (r *Registry) TaskVM(task host.TaskID) (host.VMID, bool) {
	vm, ok := r.taskVM[task]
	return vm, ok
}

// ForgetTask drops a task's VM bookkeeping, called once it completes.
func (r *Registry) ForgetTask(task host.TaskID) {
	delete(r.taskVM, task)
}

// HighPriorityTasksOn reports whether any VM attached to machine is
// currently running an SLA0/SLA1 task, the check MigrationDone and the
// power governor use to decide whether to raise a machine to P0.
func (r *Registry) HighPriorityTasksOn(h host.Host, machine host.MachineID) bool {
	for _, vm := range r.vmIDs {
		info, err := h.VMGetInfo(vm)
		if err != nil || !info.Attached || info.MachineID != machine {
			continue
		}
		for _, t := range info.ActiveTasks {
			sla, err := h.RequiredSLA(t)
			if err != nil {
				continue
			}
			if sla == host.SLA0 || sla == host.SLA1 {
				return true
			}
		}
	}
	return false
}

// VMLoad is the active task count of vm, or an error if vm is unknown.
func VMLoad(h host.Host, vm host.VMID) (int, error) {
	info, err := h.VMGetInfo(vm)
	if err != nil {
		return 0, err
	}
	return len(info.ActiveTasks), nil
}

// SafeRemoveTask wraps host.VMRemoveTask and swallows its error, returning
// whether the removal succeeded. Kept as the one sanctioned way to detach a
// task from a VM outside of a full PeriodicCheck refresh.
func SafeRemoveTask(h host.Host, vm host.VMID, task host.TaskID) bool {
	return h.VMRemoveTask(vm, task) == nil
}
