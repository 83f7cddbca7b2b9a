package mylog

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

func panicIfError(err error, message string) {
	if err != nil {
		fmt.Println(message)
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// InitLogger configures the standard logrus logger. If logdir is not empty,
// output is duplicated into a file under it.
func InitLogger(level string, logdir string, stdout bool) {
	lvl, err := logrus.ParseLevel(level)
	panicIfError(err, fmt.Sprintf("unknown log level: %s", level))

	var writer io.Writer = os.Stdout
	if logdir != "" {
		folderPath, err := filepath.Abs(logdir)
		panicIfError(err, fmt.Sprintf("Error on parsing log path: %s", logdir))

		err = os.MkdirAll(folderPath, os.ModePerm)
		panicIfError(err, fmt.Sprintf("Error on creating log dir: %s", folderPath))

		abspath, err := filepath.Abs(path.Join(logdir, "mailbox.log"))
		panicIfError(err, fmt.Sprintf("Error on parsing log file path: %s", logdir))

		logFile, err := os.OpenFile(abspath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		panicIfError(err, fmt.Sprintf("Error on creating log file: %s", abspath))

		if stdout {
			writer = io.MultiWriter(logFile, os.Stdout)
		} else {
			writer = logFile
		}
	}

	formatter := new(logrus.TextFormatter)
	formatter.ForceColors = stdout && logdir == ""
	formatter.TimestampFormat = "2006-01-02 15:04:05.000000"
	formatter.FullTimestamp = true

	logrus.SetLevel(lvl)
	logrus.SetFormatter(formatter)
	logrus.SetOutput(writer)
}
