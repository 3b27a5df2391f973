package schedulers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spdfg/cloudsched/elektronLogging"
	"github.com/spdfg/cloudsched/host"
	"github.com/spdfg/cloudsched/internal/simhost"
)

func newTestScheduler(policy Policy) (*BaseScheduler, *simhost.Host) {
	h := simhost.New()
	return NewBaseScheduler(h, policy, &elektronLogging.Driver{}), h
}

// Scenario 1 : a warm-pooled idle VM absorbs a new task without
// touching any machine's S-state.
func TestWarmPoolConsumesTask(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())
	for i := 0; i < 4; i++ {
		id := h.AddMachine(host.MachineInfo{
			CPU: host.X86, NumCPUs: 4, MemorySize: 16384,
			SState: host.S0, PState: host.P1,
			SStateWatts: []float64{float64(10 + i), 0, 0, 0, 0, 0, 0},
		})
		h.CompleteStateChange(id, host.S0)
	}
	assert.NoError(t, s.InitScheduler(0))

	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX, Memory: 1024, SLA: host.SLA2, TargetCompletion: 1_000_000_000})
	s.HandleNewTask(0, task)

	vm, ok := s.Registry().TaskVM(task)
	assert.True(t, ok)
	info, err := h.VMGetInfo(vm)
	assert.NoError(t, err)
	assert.True(t, info.Attached)

	for _, m := range s.Registry().Machines() {
		mi, _ := h.MachineGetInfo(m)
		assert.Equal(t, host.S0, mi.SState)
	}
}

// Scenario 2 : an SLA0 task forces a wake-up when every S0
// machine is over the strict utilization ceiling and no compatible VM
// exists (the warm pool holds only LINUX VMs; the task needs LINUX_RT).
func TestSLA0UrgencyForcesWakeup(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())

	busy1 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, ActiveTasks: 3, SState: host.S0, SStateWatts: []float64{10}})
	h.CompleteStateChange(busy1, host.S0)
	busy2 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, ActiveTasks: 3, SState: host.S0, SStateWatts: []float64{20}})
	h.CompleteStateChange(busy2, host.S0)
	sleeping := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, SState: host.S5, SStateWatts: []float64{5}})

	assert.NoError(t, s.InitScheduler(0))
	// InitScheduler samples utilization from ActiveTasks/NumCPUs = 3/4 = 0.75 > 0.5 ceiling for SLA0.
	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX_RT, Memory: 512, SLA: host.SLA0, TargetCompletion: 13_000_000})
	s.HandleNewTask(1_000_000, task)

	_, assigned := s.Registry().TaskVM(task)
	assert.False(t, assigned)
	assert.Contains(t, s.DeferredTasks(), task)

	h.CompleteStateChange(sleeping, host.S0)
	s.StateChangeComplete(1_000_001, sleeping)

	vm, ok := s.Registry().TaskVM(task)
	assert.True(t, ok)
	info, err := h.VMGetInfo(vm)
	assert.NoError(t, err)
	assert.Equal(t, sleeping, info.MachineID)
}

// Scenario 3 : a lightly loaded machine is demoted to P2.
func TestPeriodicCheckDemotesPState(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, ActiveTasks: 1, SState: host.S0, PState: host.P0, SStateWatts: []float64{10}})
	h.CompleteStateChange(m, host.S0)
	assert.NoError(t, s.InitScheduler(0))

	s.SchedulerCheck(1_000_000)

	info, err := h.MachineGetInfo(m)
	assert.NoError(t, err)
	assert.Equal(t, host.P2, info.PState)
}

// Scenario 4 : a VM pending migration is skipped during VM match
// even though it would otherwise be idle-compatible.
func TestPendingMigrationExcludedFromPlacement(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())
	m1 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, SState: host.S0, SStateWatts: []float64{10}})
	h.CompleteStateChange(m1, host.S0)
	m2 := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, SState: host.S0, SStateWatts: []float64{20}})
	h.CompleteStateChange(m2, host.S0)
	assert.NoError(t, s.InitScheduler(0))

	vm, err := h.VMCreate(host.LINUX, host.X86)
	assert.NoError(t, err)
	assert.NoError(t, h.VMAttach(vm, m1))
	s.Registry().PushVM(vm)
	s.Registry().BeginMigration(vm, m2)

	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX, Memory: 256, SLA: host.SLA1})
	result, err := s.PlaceEfficiency(0, task)
	assert.NoError(t, err)
	assert.True(t, result.Assigned)
	assert.NotEqual(t, vm, result.VM)
}

// Scenario 5 : a non-urgent SLA1 task still raises its host machine's
// core 0 to P0 on commit, even though it derives to MID priority rather
// than HIGH.
func TestNonUrgentSLA1RaisesP0OnCommit(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, SState: host.S0, PState: host.P2, SStateWatts: []float64{10}})
	h.CompleteStateChange(m, host.S0)
	assert.NoError(t, s.InitScheduler(0))

	task := h.AddTask(host.TaskInfo{CPU: host.X86, VMType: host.LINUX, Memory: 256, SLA: host.SLA1})
	result, err := s.PlaceEfficiency(0, task)
	assert.NoError(t, err)
	assert.True(t, result.Assigned)

	info, err := h.MachineGetInfo(m)
	assert.NoError(t, err)
	assert.Equal(t, host.P0, info.PState)
}

// Idempotence : two successive SchedulerCheck calls with no
// intervening events issue no further mutation on the second call.
func TestSecondPeriodicCheckIsIdempotent(t *testing.T) {
	s, h := newTestScheduler(NewEfficiencyMigrationPolicy())
	m := h.AddMachine(host.MachineInfo{CPU: host.X86, NumCPUs: 4, MemorySize: 16384, ActiveTasks: 1, SState: host.S0, PState: host.P1, SStateWatts: []float64{10}})
	h.CompleteStateChange(m, host.S0)
	assert.NoError(t, s.InitScheduler(0))

	s.SchedulerCheck(1_000_000)
	afterFirst, _ := h.MachineGetInfo(m)

	s.SchedulerCheck(2_000_000)
	afterSecond, _ := h.MachineGetInfo(m)

	assert.Equal(t, afterFirst.PState, afterSecond.PState)
	assert.Equal(t, afterFirst.SState, afterSecond.SState)
}
