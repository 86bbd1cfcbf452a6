package logs

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New инициализирует логгер. JSON и Info для релизного окружения,
// текст и Debug для всего остального.
func New(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	logger.SetFormatter(new(logrus.JSONFormatter))
	logger.SetLevel(logrus.InfoLevel)

	if os.Getenv("GIN_MODE") != "release" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(new(logrus.TextFormatter))
	}

	return logger
}
