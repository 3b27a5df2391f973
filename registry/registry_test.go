package registry

import (
	"testing"

	"github.com/spdfg/cloudsched/host"
	"github.com/stretchr/testify/assert"
)

func machines() []host.MachineInfo {
	return []host.MachineInfo{
		{ID: 1, SState: host.S0, SStateWatts: []float64{30, 0, 0, 0, 0, 0, 0}},
		{ID: 2, SState: host.S5, SStateWatts: []float64{10, 0, 0, 0, 0, 0, 0}},
		{ID: 3, SState: host.S0, SStateWatts: []float64{20, 0, 0, 0, 0, 0, 0}},
	}
}

func TestSetMachinesBuildsEfficiencyOrderAndActiveSet(t *testing.T) {
	r := New()
	r.SetMachines(machines())

	assert.Equal(t, []host.MachineID{2, 3, 1}, r.EfficiencyOrder())
	assert.True(t, r.IsMachineActive(1))
	assert.False(t, r.IsMachineActive(2))
	assert.True(t, r.IsMachineActive(3))
	assert.Equal(t, 2, r.ActiveMachineCount())
}

func TestPendingMigrationLifecycle(t *testing.T) {
	r := New()
	r.SetMachines(machines())

	vm := host.VMID(100)
	assert.False(t, r.IsPendingMigration(vm))

	r.BeginMigration(vm, 3)
	assert.True(t, r.IsPendingMigration(vm))
	target, ok := r.PendingMigrationTarget(vm)
	assert.True(t, ok)
	assert.Equal(t, host.MachineID(3), target)

	r.EndMigration(vm, 1000)
	assert.False(t, r.IsPendingMigration(vm))
	assert.False(t, r.CooldownElapsed(vm, 1000+500, 1000))
	assert.True(t, r.CooldownElapsed(vm, 1000+1000, 1000))
}

func TestPushAndRemoveVMPreservesInsertionOrder(t *testing.T) {
	r := New()
	r.PushVM(1)
	r.PushVM(2)
	r.PushVM(3)
	assert.Equal(t, []host.VMID{1, 2, 3}, r.VMs())

	r.RemoveVM(2)
	assert.Equal(t, []host.VMID{1, 3}, r.VMs())
}

func TestActivateDeactivateMachine(t *testing.T) {
	r := New()
	r.SetMachines(machines())
	r.SetUtilization(1, 0.5)

	r.DeactivateMachine(1)
	assert.False(t, r.IsMachineActive(1))
	assert.Equal(t, 0.0, r.Utilization(1))

	r.ActivateMachine(1)
	assert.True(t, r.IsMachineActive(1))
	assert.Equal(t, 0.0, r.Utilization(1))
}

func TestTaskVMBookkeeping(t *testing.T) {
	r := New()
	r.RecordTaskVM(7, 42)

	vm, ok := r.TaskVM(7)
	assert.True(t, ok)
	assert.Equal(t, host.VMID(42), vm)

	r.ForgetTask(7)
	_, ok = r.TaskVM(7)
	assert.False(t, ok)
}

func TestLastMigrationTimeUnknownVM(t *testing.T) {
	r := New()
	_, ok := r.LastMigrationTime(999)
	assert.False(t, ok)

	r.BeginMigration(1, 2)
	r.EndMigration(1, 500)
	last, ok := r.LastMigrationTime(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(500), last)
}

type fakeHost struct {
	vms        map[host.VMID]host.VMInfo
	slas       map[host.TaskID]host.SLAType
	removeErrs map[host.TaskID]error
}

func (f *fakeHost) MachineGetTotal() int                                  { return 0 }
func (f *fakeHost) MachineGetInfo(host.MachineID) (host.MachineInfo, error) {
	return host.MachineInfo{}, nil
}
func (f *fakeHost) VMGetInfo(id host.VMID) (host.VMInfo, error) {
	info, ok := f.vms[id]
	if !ok {
		return host.VMInfo{}, assert.AnError
	}
	return info, nil
}
func (f *fakeHost) GetTaskInfo(host.TaskID) (host.TaskInfo, error) { return host.TaskInfo{}, nil }
func (f *fakeHost) RequiredCPUType(host.TaskID) (host.CPUType, error) { return host.X86, nil }
func (f *fakeHost) RequiredVMType(host.TaskID) (host.VMType, error)   { return host.LINUX, nil }
func (f *fakeHost) RequiredSLA(id host.TaskID) (host.SLAType, error) {
	sla, ok := f.slas[id]
	if !ok {
		return host.SLA3, assert.AnError
	}
	return sla, nil
}
func (f *fakeHost) GetTaskMemory(host.TaskID) (uint64, error)         { return 0, nil }
func (f *fakeHost) GetTaskPriority(host.TaskID) (host.Priority, error) { return host.LOW, nil }
func (f *fakeHost) MachineGetClusterEnergy() (float64, error)         { return 0, nil }
func (f *fakeHost) GetSLAReport(host.SLAType) (float64, error)        { return 0, nil }
func (f *fakeHost) VMCreate(host.VMType, host.CPUType) (host.VMID, error) { return 0, nil }
func (f *fakeHost) VMAttach(host.VMID, host.MachineID) error             { return nil }
func (f *fakeHost) VMAddTask(host.VMID, host.TaskID, host.Priority) error { return nil }
func (f *fakeHost) VMRemoveTask(vm host.VMID, task host.TaskID) error {
	return f.removeErrs[task]
}
func (f *fakeHost) VMShutdown(host.VMID) error                                  { return nil }
func (f *fakeHost) VMMigrate(host.VMID, host.MachineID) error                   { return nil }
func (f *fakeHost) MachineSetState(host.MachineID, host.SState) error           { return nil }
func (f *fakeHost) MachineSetCorePerformance(host.MachineID, int, host.PState) error {
	return nil
}
func (f *fakeHost) SetTaskPriority(host.TaskID, host.Priority) error { return nil }
func (f *fakeHost) VMMemoryOverhead() uint64                        { return 0 }

func TestHighPriorityTasksOn(t *testing.T) {
	r := New()
	r.PushVM(1)
	r.PushVM(2)
	fh := &fakeHost{
		vms: map[host.VMID]host.VMInfo{
			1: {ID: 1, Attached: true, MachineID: 5, ActiveTasks: []host.TaskID{10}},
			2: {ID: 2, Attached: true, MachineID: 6, ActiveTasks: []host.TaskID{20}},
		},
		slas: map[host.TaskID]host.SLAType{10: host.SLA2, 20: host.SLA0},
	}

	assert.False(t, r.HighPriorityTasksOn(fh, 5))
	assert.True(t, r.HighPriorityTasksOn(fh, 6))
}

func TestSafeRemoveTask(t *testing.T) {
	fh := &fakeHost{removeErrs: map[host.TaskID]error{1: assert.AnError}}
	assert.False(t, SafeRemoveTask(fh, 1, 1))
	assert.True(t, SafeRemoveTask(fh, 1, 2))
}

func TestVMLoad(t *testing.T) {
	fh := &fakeHost{vms: map[host.VMID]host.VMInfo{1: {ActiveTasks: []host.TaskID{1, 2, 3}}}}
	load, err := VMLoad(fh, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, load)

	_, err = VMLoad(fh, 99)
	assert.Error(t, err)
}
