// Package log builds the structured logger every connection carries,
// matching the level discipline of spec §7: ProtocolError at debug,
// HandlerError at info. Grounded in the pack's own use of
// go.uber.org/zap for per-request structured logging.
package log

import "go.uber.org/zap"

// New builds a production zap logger (JSON output, info level and
// above) with its sugared API, the shape mprpc.Conn attaches
// connection-scoped fields to via .With(...).
func New() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Development builds a human-readable logger (console output, debug
// level and above) suited to local runs and tests.
func Development() (*zap.SugaredLogger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything, the default when no
// logger is configured via mprpc.WithLogger.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
