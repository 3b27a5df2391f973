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
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/spdfg/cloudsched/constants"
)

// Config carries the tunable thresholds plus which policy to boot, loaded
// from a YAML file at startup.
type Config struct {
	Policy string `yaml:"policy"`

	OverloadThreshold     *float64 `yaml:"overloadThreshold"`
	UnderloadThreshold    *float64 `yaml:"underloadThreshold"`
	UrgentWindow          *uint64  `yaml:"urgentWindow"`
	MigrationCooldown     *uint64  `yaml:"migrationCooldown"`
	MinActiveMachines     *int     `yaml:"minActiveMachines"`
	WarmPoolSize          *int     `yaml:"warmPoolSize"`
	ConsolidationInterval *uint64  `yaml:"consolidationInterval"`
}

// LoadConfig reads a YAML scheduler config. An empty path returns a
// Config defaulted to EfficiencyMigration with no overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Policy: EfficiencyMigration}
	if path == "" {
		return cfg, nil
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Policy == "" {
		cfg.Policy = EfficiencyMigration
	}
	return cfg, nil
}

// Apply pushes any overrides onto the package-level constants. Fields left
// nil keep their default value.
func (c Config) Apply() {
	if c.OverloadThreshold != nil {
		constants.OverloadThreshold = *c.OverloadThreshold
	}
	if c.UnderloadThreshold != nil {
		constants.UnderloadThreshold = *c.UnderloadThreshold
	}
	if c.UrgentWindow != nil {
		constants.UrgentWindow = *c.UrgentWindow
	}
	if c.MigrationCooldown != nil {
		constants.MigrationCooldown = *c.MigrationCooldown
	}
	if c.MinActiveMachines != nil {
		constants.MinActiveMachines = *c.MinActiveMachines
	}
	if c.WarmPoolSize != nil {
		constants.WarmPoolSize = *c.WarmPoolSize
	}
	if c.ConsolidationInterval != nil {
		constants.ConsolidationInterval = *c.ConsolidationInterval
	}
}
