package simhost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spdfg/cloudsched/host"
)

func TestVMLifecycle(t *testing.T) {
	h := New()
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 4096, SState: host.S5})
	h.CompleteStateChange(m, host.S0)

	vm, err := h.VMCreate(host.LINUX, host.X86)
	assert.NoError(t, err)
	assert.NoError(t, h.VMAttach(vm, m))

	info, err := h.VMGetInfo(vm)
	assert.NoError(t, err)
	assert.True(t, info.Attached)
	assert.Equal(t, m, info.MachineID)

	mi, err := h.MachineGetInfo(m)
	assert.NoError(t, err)
	assert.Equal(t, 1, mi.ActiveVMs)
}

func TestTaskAddAndRemove(t *testing.T) {
	h := New()
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 4096, SState: host.S0})
	vm, _ := h.VMCreate(host.LINUX, host.X86)
	assert.NoError(t, h.VMAttach(vm, m))

	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX, Memory: 512, SLA: host.SLA2})
	assert.NoError(t, h.VMAddTask(vm, task, host.LOW))

	info, _ := h.VMGetInfo(vm)
	assert.Equal(t, []host.TaskID{task}, info.ActiveTasks)

	assert.NoError(t, h.VMRemoveTask(vm, task))
	info, _ = h.VMGetInfo(vm)
	assert.Empty(t, info.ActiveTasks)
}

func TestVMAddTaskOutOfMemory(t *testing.T) {
	h := New()
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 100, SState: host.S0})
	vm, _ := h.VMCreate(host.LINUX, host.X86)
	assert.Error(t, h.VMAttach(vm, m)) // 256-byte VM overhead exceeds a 100-byte machine

	m2 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 1024, SState: host.S0})
	vm2, _ := h.VMCreate(host.LINUX, host.X86)
	assert.NoError(t, h.VMAttach(vm2, m2))
	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX, Memory: 2048, SLA: host.SLA2})
	assert.Error(t, h.VMAddTask(vm2, task, host.LOW))
}

func TestMigrationCompletion(t *testing.T) {
	h := New()
	m1 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 4096, SState: host.S0})
	m2 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 4096, SState: host.S0})
	vm, _ := h.VMCreate(host.LINUX, host.X86)
	assert.NoError(t, h.VMAttach(vm, m1))

	assert.NoError(t, h.VMMigrate(vm, m2))
	h.CompleteMigration(vm, m2)

	info, err := h.VMGetInfo(vm)
	assert.NoError(t, err)
	assert.Equal(t, m2, info.MachineID)

	m1Info, _ := h.MachineGetInfo(m1)
	assert.Equal(t, 0, m1Info.ActiveVMs)
	m2Info, _ := h.MachineGetInfo(m2)
	assert.Equal(t, 1, m2Info.ActiveVMs)
}

func TestUnknownMachineOrVMReturnsError(t *testing.T) {
	h := New()
	_, err := h.MachineGetInfo(99)
	assert.Error(t, err)

	_, err = h.VMGetInfo(99)
	assert.Error(t, err)
}
