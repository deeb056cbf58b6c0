// Package mprpc implements a multi-protocol RPC server over persistent TCP
// connections. A single listening port serves four independent wire
// encodings, selected per request by an 8-byte magic prefix: a binary
// packed codec (msgpack), a pickled object codec, a fixed-width ASCII
// codec, and a URI-form codec.
//
// The package does not open sockets itself. Callers hand it an already
// connected Stream (see Serve), so it composes with whatever TCP acceptor
// or connection scheduler the host process uses.
package mprpc
