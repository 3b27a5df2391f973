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

// Package simhost is a minimal, deterministic in-memory implementation of
// host.Host. It exists so the scheduler package is testable and
// demonstrable without a real discrete-event simulator; it implements no
// SLA/energy accounting beyond what integration tests and cmd/demo need.
package simhost

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/spdfg/cloudsched/host"
)

const vmMemoryOverhead = 256

type machine struct {
	info host.MachineInfo
	vms  map[host.VMID]struct{}
}

type vm struct {
	info host.VMInfo
}

type task struct {
	info     host.TaskInfo
	priority host.Priority
}

// slaTally counts the tasks placed per SLA class and how many of them
// violated it. It is kept trivial since SLA accounting is out of scope for
// the core: VMAddTask never records a violation, so the report is always 0.
type slaTally struct {
	total    int
	violated int
}

// Host is a fixed-topology in-memory simulator. All mutators are
// synchronous; callers drive asynchronous effects (StateChangeComplete,
// MigrationComplete) explicitly via CompleteStateChange/CompleteMigration,
// matching the real simulator's callback-driven model.
type Host struct {
	mu sync.Mutex

	machines map[host.MachineID]*machine
	vms      map[host.VMID]*vm
	tasks    map[host.TaskID]*task

	nextVM host.VMID
	energy float64
	sla    map[host.SLAType]*slaTally
}

// New builds a Host with no machines registered. Tests add machines via
// AddMachine, which seeds them in whatever SState the caller supplies, then
// flip them to S0 via CompleteStateChange if a wake was simulated.
func New() *Host {
	return &Host{
		machines: make(map[host.MachineID]*machine),
		vms:      make(map[host.VMID]*vm),
		tasks:    make(map[host.TaskID]*task),
		sla:      make(map[host.SLAType]*slaTally),
	}
}

// AddMachine registers a new machine and returns its ID.
func (h *Host) AddMachine(info host.MachineInfo) host.MachineID {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := host.MachineID(len(h.machines))
	info.ID = id
	h.machines[id] = &machine{info: info, vms: make(map[host.VMID]struct{})}
	return id
}

// AddTask registers a task descriptor the scheduler can later query, and
// returns its ID. Tasks aren't "running" until VMAddTask places them.
func (h *Host) AddTask(info host.TaskInfo) host.TaskID {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := host.TaskID(len(h.tasks))
	info.ID = id
	h.tasks[id] = &task{info: info, priority: info.Priority}
	return id
}

// CompleteStateChange flips a machine to the target S-state the caller
// previously requested via MachineSetState, simulating the asynchronous
// completion the real host reports via its own callback.
func (h *Host) CompleteStateChange(m host.MachineID, state host.SState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if mm, ok := h.machines[m]; ok {
		mm.info.SState = state
	}
}

// CompleteMigration moves vm onto target immediately, simulating the
// asynchronous completion the real host reports via MigrationComplete.
func (h *Host) CompleteMigration(vmID host.VMID, target host.MachineID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[vmID]
	if !ok {
		return
	}
	if v.info.Attached {
		if old, ok := h.machines[v.info.MachineID]; ok {
			delete(old.vms, vmID)
			old.info.ActiveVMs = len(old.vms)
		}
	}
	v.info.MachineID = target
	v.info.Attached = true
	if tm, ok := h.machines[target]; ok {
		tm.vms[vmID] = struct{}{}
		tm.info.ActiveVMs = len(tm.vms)
	}
}

func (h *Host) MachineGetTotal() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.machines)
}

func (h *Host) MachineGetInfo(id host.MachineID) (host.MachineInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.machines[id]
	if !ok {
		return host.MachineInfo{}, errors.Errorf("simhost: unknown machine %d", id)
	}
	return m.info, nil
}

func (h *Host) VMGetInfo(id host.VMID) (host.VMInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[id]
	if !ok {
		return host.VMInfo{}, errors.Errorf("simhost: unknown vm %d", id)
	}
	return v.info, nil
}

func (h *Host) GetTaskInfo(id host.TaskID) (host.TaskInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tasks[id]
	if !ok {
		return host.TaskInfo{}, errors.Errorf("simhost: unknown task %d", id)
	}
	return t.info, nil
}

func (h *Host) RequiredCPUType(id host.TaskID) (host.CPUType, error) {
	t, err := h.GetTaskInfo(id)
	return t.CPU, err
}

func (h *Host) RequiredVMType(id host.TaskID) (host.VMType, error) {
	t, err := h.GetTaskInfo(id)
	return t.VMType, err
}

func (h *Host) RequiredSLA(id host.TaskID) (host.SLAType, error) {
	t, err := h.GetTaskInfo(id)
	return t.SLA, err
}

func (h *Host) GetTaskMemory(id host.TaskID) (uint64, error) {
	t, err := h.GetTaskInfo(id)
	return t.Memory, err
}

func (h *Host) GetTaskPriority(id host.TaskID) (host.Priority, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tasks[id]
	if !ok {
		return host.LOW, errors.Errorf("simhost: unknown task %d", id)
	}
	return t.priority, nil
}

func (h *Host) MachineGetClusterEnergy() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.energy, nil
}

func (h *Host) GetSLAReport(sla host.SLAType) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.sla[sla]
	if !ok || t.total == 0 {
		return 0, nil
	}
	return float64(t.violated) / float64(t.total) * 100, nil
}

func (h *Host) VMCreate(vmType host.VMType, cpu host.CPUType) (host.VMID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextVM
	h.nextVM++
	h.vms[id] = &vm{
		info: host.VMInfo{ID: id, CPU: cpu, Type: vmType},
	}
	return id, nil
}

func (h *Host) VMAttach(vmID host.VMID, m host.MachineID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[vmID]
	if !ok {
		return errors.Errorf("simhost: unknown vm %d", vmID)
	}
	mm, ok := h.machines[m]
	if !ok {
		return errors.Errorf("simhost: unknown machine %d", m)
	}
	if mm.info.MemoryUsed+vmMemoryOverhead > mm.info.MemorySize {
		return errors.Errorf("simhost: machine %d out of memory for VM attach", m)
	}
	v.info.MachineID = m
	v.info.Attached = true
	mm.vms[vmID] = struct{}{}
	mm.info.ActiveVMs = len(mm.vms)
	mm.info.MemoryUsed += vmMemoryOverhead
	return nil
}

func (h *Host) VMAddTask(vmID host.VMID, taskID host.TaskID, priority host.Priority) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[vmID]
	if !ok || !v.info.Attached {
		return errors.Errorf("simhost: vm %d not attached", vmID)
	}
	t, ok := h.tasks[taskID]
	if !ok {
		return errors.Errorf("simhost: unknown task %d", taskID)
	}
	mm := h.machines[v.info.MachineID]
	if mm.info.MemoryUsed+t.info.Memory > mm.info.MemorySize {
		return errors.Errorf("simhost: machine %d out of memory for task %d", v.info.MachineID, taskID)
	}
	v.info.ActiveTasks = append(v.info.ActiveTasks, taskID)
	mm.info.MemoryUsed += t.info.Memory
	mm.info.ActiveTasks++
	t.priority = priority
	h.tallySLA(t.info.SLA, false)
	return nil
}

func (h *Host) VMRemoveTask(vmID host.VMID, taskID host.TaskID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[vmID]
	if !ok {
		return errors.Errorf("simhost: unknown vm %d", vmID)
	}
	for i, t := range v.info.ActiveTasks {
		if t == taskID {
			v.info.ActiveTasks = append(v.info.ActiveTasks[:i], v.info.ActiveTasks[i+1:]...)
			if mm, ok := h.machines[v.info.MachineID]; ok {
				if task, ok := h.tasks[taskID]; ok {
					mm.info.MemoryUsed -= task.info.Memory
				}
				mm.info.ActiveTasks--
			}
			return nil
		}
	}
	return errors.Errorf("simhost: task %d not on vm %d", taskID, vmID)
}

func (h *Host) VMShutdown(vmID host.VMID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.vms[vmID]
	if !ok {
		return errors.Errorf("simhost: unknown vm %d", vmID)
	}
	if v.info.Attached {
		if mm, ok := h.machines[v.info.MachineID]; ok {
			delete(mm.vms, vmID)
			mm.info.ActiveVMs = len(mm.vms)
			mm.info.MemoryUsed -= vmMemoryOverhead
			mm.info.ActiveTasks -= len(v.info.ActiveTasks)
		}
	}
	delete(h.vms, vmID)
	return nil
}

func (h *Host) VMMigrate(vmID host.VMID, target host.MachineID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.vms[vmID]; !ok {
		return errors.Errorf("simhost: unknown vm %d", vmID)
	}
	if _, ok := h.machines[target]; !ok {
		return errors.Errorf("simhost: unknown machine %d", target)
	}
	return nil // completion is reported asynchronously via CompleteMigration
}

func (h *Host) MachineSetState(m host.MachineID, state host.SState) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.machines[m]; !ok {
		return errors.Errorf("simhost: unknown machine %d", m)
	}
	return nil // completion is reported asynchronously via CompleteStateChange
}

func (h *Host) MachineSetCorePerformance(m host.MachineID, core int, pstate host.PState) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	mm, ok := h.machines[m]
	if !ok {
		return errors.Errorf("simhost: unknown machine %d", m)
	}
	mm.info.PState = pstate
	return nil
}

func (h *Host) SetTaskPriority(taskID host.TaskID, priority host.Priority) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tasks[taskID]
	if !ok {
		return errors.Errorf("simhost: unknown task %d", taskID)
	}
	t.priority = priority
	return nil
}

func (h *Host) VMMemoryOverhead() uint64 {
	return vmMemoryOverhead
}

func (h *Host) tallySLA(sla host.SLAType, violated bool) {
	t, ok := h.sla[sla]
	if !ok {
		t = &slaTally{}
		h.sla[sla] = t
	}
	t.total++
	if violated {
		t.violated++
	}
}
