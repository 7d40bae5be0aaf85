package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init replaces the no-op default with a production logger. Call once at startup.
func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log = l
}

func L() *zap.Logger { return log }

func Sync() { _ = log.Sync() }
