// Package constants holds the scheduler's tunable thresholds, as
// package-level vars so a loaded schedulers.Config can override them at
// InitScheduler time.
package constants

// UrgentWindow (ticks): a task whose target_completion is within this many
// ticks of now is treated as HIGH priority regardless of its SLA class.
var UrgentWindow uint64 = 12000000

// OverloadThreshold: a machine above this utilization is not a candidate
// for new placement (non-SLA0/1); one at or above it is not a migration
// target.
var OverloadThreshold = 0.80

// UnderloadThreshold: a machine below this utilization, with no active
// tasks, is a candidate for demotion to S0i1.
var UnderloadThreshold = 0.30

// MigrationCooldown (ticks): minimum time between two migrations of the
// same VM.
var MigrationCooldown uint64 = 1000000

// P-state utilization thresholds.
var PStateHighUtilization = 0.75
var PStateMidUtilization = 0.30

// StrictSLAUtilizationCeiling gates SLA0/SLA1 machine-match.
var StrictSLAUtilizationCeiling = 0.50

// MinActiveMachines is the floor below which the active tier is never
// drained by consolidation or demotion.
var MinActiveMachines = 2

// WarmPoolSize bounds the optional VM prefill pool a policy may create at
// InitScheduler.
var WarmPoolSize = 50

// ConsolidationInterval (ticks): PeriodicCheck calls between consolidation
// sweeps.
var ConsolidationInterval uint64 = 10
