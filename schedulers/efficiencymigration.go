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

	"github.com/spdfg/cloudsched/constants"
	"github.com/spdfg/cloudsched/host"
)

// EfficiencyMigrationPolicy is the default, full policy: efficiency-ordered
// placement, periodic consolidation, and a pre-created VM warm pool at
// Init.
type EfficiencyMigrationPolicy struct {
	BasePolicy
}

func NewEfficiencyMigrationPolicy() *EfficiencyMigrationPolicy {
	return &EfficiencyMigrationPolicy{BasePolicy{PolicyName: EfficiencyMigration}}
}

func (p *EfficiencyMigrationPolicy) Place(s *BaseScheduler, now uint64, task host.TaskID) (PlacementResult, error) {
	return s.PlaceEfficiency(now, task)
}

// OnTick drives consolidation on top of the governor/deferred-drain work
// BaseScheduler.SchedulerCheck already performs unconditionally.
func (p *EfficiencyMigrationPolicy) OnTick(s *BaseScheduler, now uint64) {
	s.consolidate(now)
}

// Warm pre-creates up to constants.WarmPoolSize Linux VMs across the most
// efficient machines with spare memory, so the first wave of tasks can skip
// machine/VM-creation latency.
func (p *EfficiencyMigrationPolicy) Warm(s *BaseScheduler, now uint64) {
	created := 0
	for _, m := range s.reg.EfficiencyOrder() {
		if created >= constants.WarmPoolSize {
			return
		}
		info, err := s.host.MachineGetInfo(m)
		if err != nil || info.SState != host.S0 {
			continue
		}
		for info.MemoryUsed+s.host.VMMemoryOverhead() <= info.MemorySize && created < constants.WarmPoolSize {
			vm, err := s.host.VMCreate(host.LINUX, info.CPU)
			if err != nil {
				break
			}
			if err := s.host.VMAttach(vm, m); err != nil {
				break
			}
			s.reg.PushVM(vm)
			created++
			info, err = s.host.MachineGetInfo(m)
			if err != nil {
				break
			}
		}
	}
	s.log.Info(elekLog.Fields{"created": created, "now": now}, "warm pool pre-created")
}
