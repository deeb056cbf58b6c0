package mprpc

import (
	"context"

	"github.com/lihuimail/mprpc/internal/ratelimit"
)

// Serve drives one connection's request loop to completion (spec §4.1):
// it reads the 8-byte magic prefix of every request cycle, hands the
// request to the runner that magic names, and repeats until the peer
// closes the stream. It always returns nil: a clean disconnect and a
// stream read error (including one before any request has been read)
// both end the loop, and a read error is only logged at debug level.
//
// Serve does not accept connections itself (spec §1's "out of scope":
// the TCP acceptor/scheduler is the host's job); it is the function a
// host stream server calls once per accepted socket.
func Serve(stream Stream, peer PeerAddr, handler Handler, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	conn := newConn(stream, peer, o)
	defer func() { _ = conn.close() }()

	conn.log.Debugw("connection accepted")

	for {
		if err := ratelimit.Wait(context.Background(), conn.limiter); err != nil {
			conn.log.Debugw("rate limiter error, closing connection", "error", err)
			return nil
		}

		magic, disp, err := conn.readExact(magicLen)
		if disp == dispDisconnect {
			if err != nil {
				conn.log.Debugw("connection read error", "error", err)
			} else {
				conn.log.Debugw("peer disconnected")
			}
			return nil
		}

		r, prefetch, reserved := selectRunner(magic)
		if reserved {
			conn.log.Debugw("reserved magic rejected", "magic", string(magic))
			sendBinaryResponse(conn, 0, "protocol error: reserved magic "+string(magic), nil)
			continue
		}

		if r(conn, handler, prefetch) == dispDisconnect {
			return nil
		}
	}
}

// selectRunner implements spec §4.1 steps 2-4: recognized magics select
// their runner; reserved magics are flagged so the caller can send the
// protocol-error envelope; anything else (no magic at all) falls back
// to codec B with the 8 bytes already read fed into its decoder.
func selectRunner(magic []byte) (r runner, prefetch []byte, reserved bool) {
	switch string(magic) {
	case magicMSGPACK:
		return runnerBinary, nil, false
	case magicPICKLES:
		return runnerPickle, nil, false
	case magicSTRINGS:
		return runnerStrings, nil, false
	case magicURIHTTP:
		return runnerURI, nil, false
	}
	if reservedMagics[string(magic)] {
		return nil, nil, true
	}
	return runnerBinary, magic, false
}
