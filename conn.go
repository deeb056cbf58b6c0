package mprpc

import (
	"io"
	"strings"

	"github.com/spiral/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lihuimail/mprpc/internal/ratelimit"
	"github.com/lihuimail/mprpc/pkg/codec/binary"
)

// Stream is the byte-stream abstraction this package consumes from its
// host (spec §6: "a stream abstraction with blocking read(n) -> bytes,
// write_all(bytes), close(), and a peer-address accessor"). Any
// connected net.Conn satisfies it directly.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
}

// PeerAddr names the remote end of a Conn. net.Addr satisfies it.
type PeerAddr interface {
	String() string
}

// disposition is what a runner reports back to the connection loop.
type disposition int

const (
	// dispContinue keeps the loop reading the next request.
	dispContinue disposition = iota
	// dispDisconnect means the peer closed mid-frame (or cleanly);
	// the loop must exit without attempting another read.
	dispDisconnect
)

// Conn is one accepted TCP socket, owned exclusively by the connection
// loop and the runner it is currently driving (spec §3, §5). It holds
// the stream, the peer address, the send arbiter, the codec-B streaming
// decoder (stateful across request cycles, per spec §4.2), and the
// character encodings the host configured through Serve's options.
type Conn struct {
	stream Stream
	peer   PeerAddr

	arb *arbiter

	binDecoder *binary.StreamDecoder

	packEncoding   string
	unpackEncoding string

	log     *zap.SugaredLogger
	limiter *rate.Limiter
}

func newConn(stream Stream, peer PeerAddr, opts options) *Conn {
	return &Conn{
		stream:         stream,
		peer:           peer,
		arb:            &arbiter{},
		binDecoder:     binary.NewStreamDecoder(opts.unpackEncoding),
		packEncoding:   opts.packEncoding,
		unpackEncoding: opts.unpackEncoding,
		log:            opts.logger.With("peer", peer.String()),
		limiter:        ratelimit.New(opts.requestsPerSecond, opts.burst),
	}
}

// Peer returns the remote address this connection was accepted from.
func (c *Conn) Peer() PeerAddr { return c.peer }

// Read is the handler-facing stream escape hatch of spec §4.8: it reads
// up to n bytes directly off the stream, bypassing all codec framing.
// Codecs S and U use it internally to fetch the request body; user code
// may call it too, once it has agreed out of band with the client on
// what the bytes mean.
func (c *Conn) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(c.stream, buf)
	return buf[:read], err
}

// Write is the handler-facing stream escape hatch of spec §4.8: it
// writes raw bytes through the send arbiter, so a handler streaming a
// large response never interleaves with a runner's own frame write.
func (c *Conn) Write(p []byte) error {
	return c.writeLocked(p)
}

// readExact reads exactly n bytes, distinguishing "peer closed before
// sending anything" (0 bytes, clean disconnect) from "peer closed
// mid-frame" (partial read, protocol error) per spec §4.1 step 1 and
// §5's "partial frames on disconnect are discarded".
func (c *Conn) readExact(n int) ([]byte, disposition, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(c.stream, buf)
	if read == 0 && errorsIsEOF(err) {
		return nil, dispDisconnect, nil
	}
	if err != nil {
		return nil, dispDisconnect, err
	}
	return buf, dispContinue, nil
}

func errorsIsEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

// writeLocked acquires the arbiter, writes the whole frame, and releases
// on every exit path (spec §4.7).
func (c *Conn) writeLocked(p []byte) error {
	const op = errors.Op("conn write")
	c.arb.acquire()
	defer c.arb.release()

	_, err := c.stream.Write(p)
	if err != nil {
		return errors.E(op, KindIO, err)
	}
	return nil
}

// close tears the connection down, combining the stream-close error
// with any error from flushing the connection's own logger (spec
// §4.17/SPEC_FULL.md §4.17), rather than discarding all but the first.
func (c *Conn) close() error {
	closeErr := c.stream.Close()
	syncErr := c.log.Sync()
	return multierr.Combine(closeErr, ignoreSyncNoise(syncErr))
}

// ignoreSyncNoise drops the "inappropriate ioctl for device" class of
// error zap's Sync returns when the underlying fd is a plain socket or
// terminal, which is not a real failure.
func ignoreSyncNoise(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "inappropriate ioctl for device") {
		return nil
	}
	return err
}
