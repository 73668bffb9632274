package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger: JSON to stdout, level from
// the LOG_LEVEL environment variable.
func Init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	logrus.Info("Logger initialized")
}
