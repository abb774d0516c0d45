package wad

import "go.uber.org/zap"

var logger *zap.SugaredLogger = zap.NewNop().Sugar()

// SetLogger replaces the package logger. Decoding is silent by default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}
