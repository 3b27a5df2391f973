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

package elektronLogging

import (
	"os"
	"path/filepath"

	elekLog "github.com/sirupsen/logrus"
)

// DecisionLogger persists every placement/power/migration decision to its
// own file, independent of the console's min-log-level filter.
type DecisionLogger struct {
	LoggerImpl
	file   *os.File
	logger *elekLog.Logger
}

func NewDecisionLogger(cfg LoggerConfig, logDir, prefix string) *DecisionLogger {
	d := &DecisionLogger{}
	d.Type = DECISION
	if !cfg.Decision.Enabled {
		return d
	}
	filename := prefix + cfg.Decision.FilenameExtension
	if logDir != "" {
		filename = filepath.Join(logDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		elekLog.WithError(err).Warn("unable to create decision log file")
		return d
	}
	d.file = f
	d.logger = &elekLog.Logger{
		Out:       f,
		Level:     elekLog.DebugLevel,
		Formatter: &elekLog.TextFormatter{FullTimestamp: true},
	}
	return d
}

func (d *DecisionLogger) Log(logType LogType, level elekLog.Level, fields elekLog.Fields, message string) {
	if logType == DECISION && d.logger != nil {
		d.logger.WithFields(fields).Log(level, message)
	}
	d.forward(logType, level, fields, message)
}
