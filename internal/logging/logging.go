// internal/logging/logging.go
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger for the given environment.
func Setup(environment string) {
	logrus.SetOutput(os.Stdout)

	if environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
		return
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.DebugLevel)
}
