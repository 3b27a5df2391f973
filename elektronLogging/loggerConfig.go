package elektronLogging

import (
	"io/ioutil"

	elekLog "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoggerConfig configures the two sinks the scheduler logs to: console
// output and a persisted decision trace.
type LoggerConfig struct {
	Console struct {
		Enabled     bool   `yaml:"enabled"`
		MinLogLevel string `yaml:"minLogLevel"`
	} `yaml:"console"`

	Decision struct {
		Enabled           bool   `yaml:"enabled"`
		FilenameExtension string `yaml:"filenameExtension"`
	} `yaml:"decision"`
}

// defaultConfig is used whenever no config file is supplied, so a library
// caller that just wants BuildLogger("", "") to work gets sane behavior.
func defaultConfig() LoggerConfig {
	var c LoggerConfig
	c.Console.Enabled = true
	c.Console.MinLogLevel = "info"
	c.Decision.Enabled = true
	c.Decision.FilenameExtension = "_decisions.log"
	return c
}

// LoadConfig reads a YAML logging config. An empty path yields
// defaultConfig().
func LoadConfig(path string) LoggerConfig {
	if path == "" {
		return defaultConfig()
	}
	c := defaultConfig()
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		elekLog.WithError(err).Warn("unable to read logging config, using defaults")
		return c
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		elekLog.WithError(err).Warn("unable to parse logging config, using defaults")
		return defaultConfig()
	}
	return c
}
