package host

// Host is the simulator-provided boundary the scheduler drives. Every
// method is synchronous; long-running effects (a state transition, a
// migration) are reported back later through the scheduler's own callback
// methods (see schedulers.BaseScheduler), not through this interface.
//
// An error return means "treat the entity as unavailable for the rest of
// this callback" -- never a signal to retry synchronously or to abort the
// callback.
type Host interface {
	// Inspectors.
	MachineGetTotal() int
	MachineGetInfo(id MachineID) (MachineInfo, error)
	VMGetInfo(id VMID) (VMInfo, error)
	GetTaskInfo(id TaskID) (TaskInfo, error)
	RequiredCPUType(id TaskID) (CPUType, error)
	RequiredVMType(id TaskID) (VMType, error)
	RequiredSLA(id TaskID) (SLAType, error)
	GetTaskMemory(id TaskID) (uint64, error)
	GetTaskPriority(id TaskID) (Priority, error)
	MachineGetClusterEnergy() (float64, error) // kWh
	GetSLAReport(sla SLAType) (float64, error) // violation percentage

	// Mutators.
	VMCreate(vmType VMType, cpu CPUType) (VMID, error)
	VMAttach(vm VMID, machine MachineID) error
	VMAddTask(vm VMID, task TaskID, priority Priority) error
	VMRemoveTask(vm VMID, task TaskID) error
	VMShutdown(vm VMID) error
	VMMigrate(vm VMID, target MachineID) error
	MachineSetState(machine MachineID, state SState) error
	MachineSetCorePerformance(machine MachineID, core int, pstate PState) error
	SetTaskPriority(task TaskID, priority Priority) error

	// VMMemoryOverhead is the fixed per-VM memory cost a host charges against
	// the hosting machine's memory_size, independent of the tasks it runs.
	VMMemoryOverhead() uint64
}
