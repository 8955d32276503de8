package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

func newLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// InitLogger sets the level of the process-wide logger.
func InitLogger(level logrus.Level) {
	GetLogger().SetLevel(level)
}

func GetLogger() *logrus.Logger {
	once.Do(newLogger)
	return logger
}
