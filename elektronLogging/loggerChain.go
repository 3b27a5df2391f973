package elektronLogging

import elekLog "github.com/sirupsen/logrus"

// Logger is a link in a chain-of-responsibility: each link decides for
// itself whether a given LogType is its concern, then forwards to the
// next link regardless.
type Logger interface {
	SetNext(next Logger)
	Log(logType LogType, level elekLog.Level, fields elekLog.Fields, message string)
}

// LoggerImpl is the common embeddable base for a chain link.
type LoggerImpl struct {
	Type LogType
	next Logger
}

func (l *LoggerImpl) SetNext(next Logger) {
	l.next = next
}

func (l *LoggerImpl) forward(logType LogType, level elekLog.Level, fields elekLog.Fields, message string) {
	if l.next != nil {
		l.next.Log(logType, level, fields, message)
	}
}
