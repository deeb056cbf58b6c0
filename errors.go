package mprpc

import (
	"github.com/spiral/errors"
)

// Error kinds mirror spec §7: ProtocolError, MethodNotFound, HandlerError,
// IOError, for use with errors.Is(kind, err) from github.com/spiral/errors.
// Only the resolver's method-not-found error (KindMethodNotFound) and
// Conn's write error (KindIO) carry a kind; codec decode errors and
// handler errors are built without one, and runners pass every error to
// the client as a plain string.
const (
	KindProtocol = errors.Kind(iota + 1)
	KindMethodNotFound
	KindHandler
	KindIO
)

// protocolError reports a malformed frame: wrong leading tag, wrong
// arity, or a reserved magic. Sent as an error envelope on B/P; closes
// the connection on S/U (see spec §4.9).
func protocolError(op errors.Op, msg string) error {
	return errors.E(op, KindProtocol, errors.Str(msg))
}

// methodNotFound reports an empty, underscore-prefixed, absent, or
// non-callable method name. Always sent as an error envelope; the
// connection stays open.
func methodNotFound(op errors.Op, name string) error {
	return errors.E(op, KindMethodNotFound, errors.Str("Method not found: "+name))
}

// handlerError wraps a panic/error raised by the user's method body.
// Sent as an error envelope (stringified); the connection stays open.
func handlerError(op errors.Op, err error) error {
	return errors.E(op, KindHandler, err)
}
