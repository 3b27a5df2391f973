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

import "github.com/pkg/errors"

// Names of the pluggable scheduling policies.
const (
	EfficiencyMigration = "efficiency-migration"
	FirstFit            = "first-fit"
	LoadAware           = "load-aware"
	RoundRobin          = "round-robin"
)

// Policies is a name -> constructor map, so a fresh, independent Policy is
// built per scheduler instance rather than sharing mutable policy state.
var Policies = map[string]func() Policy{
	EfficiencyMigration: func() Policy { return NewEfficiencyMigrationPolicy() },
	FirstFit:            func() Policy { return NewFirstFitPolicy() },
	LoadAware:           func() Policy { return NewLoadAwarePolicy() },
	RoundRobin:          func() Policy { return NewRoundRobinPolicy() },
}

// PolicyNames lists every registered policy name, for -listSchedPolicies.
func PolicyNames() []string {
	names := make([]string, 0, len(Policies))
	for name := range Policies {
		names = append(names, name)
	}
	return names
}

// BuildPolicy constructs the named policy, or an error if unknown.
func BuildPolicy(name string) (Policy, error) {
	ctor, ok := Policies[name]
	if !ok {
		return nil, errors.Errorf("unknown scheduling policy %q", name)
	}
	return ctor(), nil
}
