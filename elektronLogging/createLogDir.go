package elektronLogging

import (
	"os"
	"strconv"
	"time"

	logrus "github.com/sirupsen/logrus"
)

type logDirectory struct {
	name string
}

func (d *logDirectory) createLogDir(prefix string, startTime time.Time) {
	dirName := "./" + prefix + "_" + strconv.Itoa(startTime.Year()) +
		"-" + startTime.Month().String() +
		"-" + strconv.Itoa(startTime.Day()) +
		"_" + strconv.Itoa(startTime.Hour()) +
		"-" + strconv.Itoa(startTime.Minute()) +
		"-" + strconv.Itoa(startTime.Second())
	if _, err := os.Stat(dirName); os.IsNotExist(err) {
		if mkErr := os.Mkdir(dirName, 0755); mkErr != nil {
			logrus.Println("unable to create log directory: ", mkErr)
			return
		}
		d.name = dirName
	} else {
		logrus.Println("log directory already exists, reusing: ", dirName)
		d.name = dirName
	}
}

func (d *logDirectory) getDirName() string {
	return d.name
}
