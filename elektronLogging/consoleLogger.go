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

import elekLog "github.com/sirupsen/logrus"

// ConsoleLogger is the human-facing sink: every placement decision,
// deferral, power transition and absorbed error the scheduler logs passes
// through here.
type ConsoleLogger struct {
	LoggerImpl
	logger *elekLog.Logger
}

func NewConsoleLogger(logger *elekLog.Logger) *ConsoleLogger {
	c := &ConsoleLogger{logger: logger}
	c.Type = CONSOLE
	return c
}

func (c *ConsoleLogger) Log(logType LogType, level elekLog.Level, fields elekLog.Fields, message string) {
	if logType == CONSOLE {
		c.logger.WithFields(fields).Log(level, message)
	}
	c.forward(logType, level, fields, message)
}
