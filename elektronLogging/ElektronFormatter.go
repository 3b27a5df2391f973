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
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	elekLog "github.com/sirupsen/logrus"
)

type ElektronFormatter struct {
	TimestampFormat string
}

func (f ElektronFormatter) getColor(entry *elekLog.Entry) *color.Color {
	switch entry.Level {
	case elekLog.InfoLevel:
		return color.New(color.FgGreen, color.Bold)
	case elekLog.WarnLevel:
		return color.New(color.FgYellow, color.Bold)
	case elekLog.ErrorLevel, elekLog.FatalLevel:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

func (f ElektronFormatter) Format(entry *elekLog.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	levelColor := f.getColor(entry)
	level := levelColor.Sprintf("[%s]:", strings.ToUpper(entry.Level.String()))
	message := strings.Join([]string{level, entry.Time.Format(f.TimestampFormat), entry.Message, " "}, " ")

	var formattedFields []string
	for key, value := range entry.Data {
		formattedFields = append(formattedFields, key+"="+toString(value))
	}

	b.WriteString(message)
	b.WriteString(strings.Join(formattedFields, ", "))
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
