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

// Command demo wires a scheduler, a tiny fixed-topology simhost.Host, and a
// deterministic task stream end to end. It drives InitScheduler,
// HandleNewTask, SchedulerCheck and SimulationComplete; the other host
// callbacks are not exercised.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	elekLog "github.com/sirupsen/logrus"

	"github.com/spdfg/cloudsched/elektronLogging"
	"github.com/spdfg/cloudsched/host"
	"github.com/spdfg/cloudsched/internal/simhost"
	"github.com/spdfg/cloudsched/schedulers"
)

func main() {
	var (
		schedPolicy       = flag.String("schedPolicy", schedulers.EfficiencyMigration, "scheduling policy to run")
		listSchedPolicies = flag.Bool("listSchedPolicies", false, "list registered scheduling policies and exit")
		configPath        = flag.String("schedConfig", "", "optional YAML scheduler config")
		logConfigPath     = flag.String("logConfig", "", "optional YAML logging config")
		ticks             = flag.Int("ticks", 20, "number of SchedulerCheck ticks to run")
	)
	flag.Parse()

	if *listSchedPolicies {
		names := schedulers.PolicyNames()
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg, err := schedulers.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading scheduler config:", err)
		os.Exit(1)
	}
	if *schedPolicy != "" {
		cfg.Policy = *schedPolicy
	}
	cfg.Apply()

	policy, err := schedulers.BuildPolicy(cfg.Policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "building policy:", err)
		os.Exit(1)
	}

	logDriver := elektronLogging.BuildLogger(cfg.Policy, *logConfigPath)
	h := bootstrapFleet()
	sched := schedulers.NewBaseScheduler(h, policy, logDriver)

	if err := sched.InitScheduler(0); err != nil {
		logDriver.Error(elekLog.Fields{"err": err}, "InitScheduler failed")
		os.Exit(1)
	}

	for _, id := range bootstrapTasks(h) {
		sched.HandleNewTask(0, id)
	}

	var now uint64
	for i := 0; i < *ticks; i++ {
		now += 1_000_000
		sched.SchedulerCheck(now)
	}

	sched.SimulationComplete(now)

	energy, _ := h.MachineGetClusterEnergy()
	for _, sla := range []host.SLAType{host.SLA0, host.SLA1, host.SLA2, host.SLA3} {
		pct, _ := h.GetSLAReport(sla)
		logDriver.Info(elekLog.Fields{"sla": sla, "violationPct": pct}, "SLA report")
	}
	logDriver.Info(elekLog.Fields{"clusterEnergyKWh": energy, "wallSeconds": float64(now) / 1e6}, "run summary")
}

// bootstrapFleet seeds a small fixed topology: four x86 machines, already
// in S0, each with a modest energy-cost gradient so efficiency order is
// meaningful.
func bootstrapFleet() *simhost.Host {
	h := simhost.New()
	for i := 0; i < 4; i++ {
		id := h.AddMachine(host.MachineInfo{
			CPU:         host.X86,
			NumCPUs:     4,
			MemorySize:  16384,
			SState:      host.S0,
			PState:      host.P1,
			SStateWatts: []float64{float64(50 + i*10), 5, 4, 3, 2, 1, 0},
		})
		h.CompleteStateChange(id, host.S0)
	}
	return h
}

// bootstrapTasks registers a handful of tasks spanning every SLA class.
func bootstrapTasks(h *simhost.Host) []host.TaskID {
	specs := []host.TaskInfo{
		{CPU: host.X86, VMType: host.LINUX, Memory: 512, SLA: host.SLA0, TargetCompletion: 11_000_000},
		{CPU: host.X86, VMType: host.LINUX, Memory: 512, SLA: host.SLA1, TargetCompletion: 0},
		{CPU: host.X86, VMType: host.LINUX, Memory: 1024, SLA: host.SLA2, TargetCompletion: 0},
		{CPU: host.X86, VMType: host.LINUX, Memory: 1024, SLA: host.SLA3, TargetCompletion: 0},
	}
	ids := make([]host.TaskID, len(specs))
	for i, t := range specs {
		ids[i] = h.AddTask(t)
	}
	return ids
}
