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

// Package host declares the boundary between the scheduler and the
// discrete-event simulator that drives it. The simulator is the sole
// implementer of the Host interface; the scheduler never assumes anything
// about it beyond the contract described here.
package host

// CPUType identifies a CPU instruction-set family. A VM's required CPU
// family is fixed at creation and must match the machine it is attached to.
type CPUType int

const (
	X86 CPUType = iota
	ARM
	POWER
	RISCV
)

func (c CPUType) String() string {
	switch c {
	case X86:
		return "X86"
	case ARM:
		return "ARM"
	case POWER:
		return "POWER"
	case RISCV:
		return "RISCV"
	default:
		return "UNKNOWN_CPU"
	}
}

// VMType identifies the guest OS family running inside a VM.
type VMType int

const (
	LINUX VMType = iota
	LINUX_RT
	WINDOWS
	AIX
)

func (v VMType) String() string {
	switch v {
	case LINUX:
		return "LINUX"
	case LINUX_RT:
		return "LINUX_RT"
	case WINDOWS:
		return "WINDOWS"
	case AIX:
		return "AIX"
	default:
		return "UNKNOWN_VMTYPE"
	}
}

// SLAType is a task's service-level class, strictest first.
type SLAType int

const (
	SLA0 SLAType = iota
	SLA1
	SLA2
	SLA3
)

func (s SLAType) String() string {
	switch s {
	case SLA0:
		return "SLA0"
	case SLA1:
		return "SLA1"
	case SLA2:
		return "SLA2"
	case SLA3:
		return "SLA3"
	default:
		return "UNKNOWN_SLA"
	}
}

// Priority is the scheduling priority a task is currently tagged with.
type Priority int

const (
	LOW Priority = iota
	MID
	HIGH
)

func (p Priority) String() string {
	switch p {
	case LOW:
		return "LOW"
	case MID:
		return "MID"
	case HIGH:
		return "HIGH"
	default:
		return "UNKNOWN_PRIORITY"
	}
}

// SState is a machine's ACPI-style sleep state.
type SState int

const (
	S0 SState = iota // active
	S0i1             // light sleep
	S1
	S2
	S3
	S4
	S5 // off
)

func (s SState) String() string {
	switch s {
	case S0:
		return "S0"
	case S0i1:
		return "S0i1"
	case S1:
		return "S1"
	case S2:
		return "S2"
	case S3:
		return "S3"
	case S4:
		return "S4"
	case S5:
		return "S5"
	default:
		return "UNKNOWN_SSTATE"
	}
}

// PState is a CPU core performance level, P0 fastest.
type PState int

const (
	P0 PState = iota
	P1
	P2
	P3
)

func (p PState) String() string {
	switch p {
	case P0:
		return "P0"
	case P1:
		return "P1"
	case P2:
		return "P2"
	case P3:
		return "P3"
	default:
		return "UNKNOWN_PSTATE"
	}
}

// MachineID and VMID and TaskID identify entities owned by the simulator.
// The scheduler treats all three as opaque handles.
type MachineID uint64
type VMID uint64
type TaskID uint64

// MachineInfo is a snapshot of a machine's state, valid only for the
// duration of the callback that requested it.
type MachineInfo struct {
	ID              MachineID
	CPU             CPUType
	NumCPUs         int
	MemorySize      uint64
	MemoryUsed      uint64
	SState          SState
	PState          PState
	SStateWatts     []float64 // indexed by SState, S0-state cost at SStateWatts[S0]
	HasGPU          bool
	ActiveTasks     int
	ActiveVMs       int
}

// VMInfo is a snapshot of a VM's state.
type VMInfo struct {
	ID          VMID
	CPU         CPUType
	Type        VMType
	MachineID   MachineID // zero value paired with Attached=false when unattached
	Attached    bool
	ActiveTasks []TaskID
}

// TaskInfo is the immutable-per-task data the simulator reports.
type TaskInfo struct {
	ID                TaskID
	CPU               CPUType
	VMType            VMType
	Memory            uint64
	SLA               SLAType
	TargetCompletion  uint64 // simulated-time tick; 0 means "no deadline"
	Priority          Priority
}
