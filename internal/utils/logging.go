package utils

import (
	"go.uber.org/zap"
)

// Logger is the process-wide structured logger. The server entrypoint calls
// InitLogger once; everything else goes through GetLogger so packages work
// without setup in tests.
var Logger *zap.Logger

func InitLogger() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger.Named("prepwise")
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}
