package log

import (
	"os"

	"github.com/hnchronicle/hnchronicle/utils/dotenv"
	"github.com/hnchronicle/hnchronicle/utils/flag"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	// Send log to stderr. In production use the JSON formatter so log
	// aggregation can index fields, in development keep the text formatter for
	// better readability.
	logger.SetOutput(os.Stderr)
	if dotenv.IsProdEnv() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": *flag.ServiceName, "is_development": !dotenv.IsProdEnv()},
	)
}
