package mprpc

import "go.uber.org/zap"

// options configures a Serve call. All fields have workable zero-ish
// defaults so Serve(stream, peer, handler) alone is enough to start.
type options struct {
	packEncoding      string
	unpackEncoding    string
	logger            *zap.SugaredLogger
	requestsPerSecond float64
	burst             int
}

// Option configures optional behavior of Serve.
type Option func(*options)

// PackEncoding records the character encoding for packing string fields
// on the Conn. Defaults to "utf-8", matching the reference
// implementation's pack_encoding default. The binary and pickled codecs
// do not read it: they always write strings as UTF-8.
func PackEncoding(enc string) Option {
	return func(o *options) { o.packEncoding = enc }
}

// UnpackEncoding records the character encoding for unpacking string
// fields on the Conn. Defaults to "utf-8". The binary and pickled codecs
// do not read it: they always decode strings as UTF-8.
func UnpackEncoding(enc string) Option {
	return func(o *options) { o.unpackEncoding = enc }
}

// WithLogger overrides the structured logger used for this connection.
// Defaults to a no-op logger if never set.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithRateLimit caps the number of request frames this connection will
// accept per second, using a token bucket of the given burst size. A
// zero rps (the default) disables the limiter entirely: the core itself
// has no timers, per spec §5, so the limiter is opt-in.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(o *options) {
		o.requestsPerSecond = requestsPerSecond
		o.burst = burst
	}
}

func defaultOptions() options {
	return options{
		packEncoding:   "utf-8",
		unpackEncoding: "utf-8",
		logger:         zap.NewNop().Sugar(),
	}
}
