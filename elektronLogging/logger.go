package elektronLogging

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	elekLog "github.com/sirupsen/logrus"
)

// Driver is the entry point the scheduler logs through. It owns the chain
// head and the underlying logrus instance, constructible per scheduler
// instance instead of a package-level singleton.
type Driver struct {
	chain  Logger
	logger *elekLog.Logger
}

func levelFromString(s string) elekLog.Level {
	lvl, err := elekLog.ParseLevel(s)
	if err != nil {
		return elekLog.InfoLevel
	}
	return lvl
}

// BuildLogger constructs the console->decision logger chain. prefix names
// the run (e.g. a policy name); configPath optionally points at a YAML
// LoggerConfig, defaulting when empty.
func BuildLogger(prefix, configPath string) *Driver {
	cfg := LoadConfig(configPath)
	startTime := time.Now()

	var dir logDirectory
	dir.createLogDir(prefix, startTime)

	logger := &elekLog.Logger{
		Level: levelFromString(cfg.Console.MinLogLevel),
		Formatter: &ElektronFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		},
	}
	if cfg.Console.Enabled {
		logger.Out = os.Stdout
	} else {
		logger.Out = ioutil.Discard
	}

	cLog := NewConsoleLogger(logger)
	dLog := NewDecisionLogger(cfg, dir.getDirName(), runPrefix(prefix, startTime))
	cLog.SetNext(dLog)

	return &Driver{chain: cLog, logger: logger}
}

func runPrefix(prefix string, t time.Time) string {
	return strings.Join([]string{prefix, t.Format("20060102150405")}, "_")
}

// Log routes a message through the chain under the given LogType.
func (d *Driver) Log(logType LogType, level elekLog.Level, fields elekLog.Fields, message string) {
	if d == nil || d.chain == nil {
		return
	}
	d.chain.Log(logType, level, fields, message)
}

func (d *Driver) Debug(fields elekLog.Fields, message string) {
	d.Log(CONSOLE, elekLog.DebugLevel, fields, message)
}

func (d *Driver) Info(fields elekLog.Fields, message string) {
	d.Log(CONSOLE, elekLog.InfoLevel, fields, message)
}

func (d *Driver) Warn(fields elekLog.Fields, message string) {
	d.Log(CONSOLE, elekLog.WarnLevel, fields, message)
}

func (d *Driver) Error(fields elekLog.Fields, message string) {
	d.Log(CONSOLE, elekLog.ErrorLevel, fields, message)
}

// Decision records a scheduling decision (placement/power/migration) to
// the persisted trace, independent of the console's min-log-level filter.
func (d *Driver) Decision(fields elekLog.Fields, message string) {
	d.Log(DECISION, elekLog.InfoLevel, fields, message)
}
