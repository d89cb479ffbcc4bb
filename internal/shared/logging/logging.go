package logging

import "go.uber.org/zap"

// MustNew builds the process logger: JSON at info level in production,
// console at debug level otherwise.
func MustNew(production bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
