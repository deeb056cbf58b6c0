package mprpc

import (
	"bytes"

	"github.com/lihuimail/mprpc/pkg/codec/binary"
)

// binaryChunkSize is the read granularity of spec §4.2: "read up to
// 1 MiB chunks into the streaming decoder until exactly one request
// object emerges."
const binaryChunkSize = 1 << 20

// runnerBinary implements codec B (spec §4.2). Conn.binDecoder is
// persistent across calls: bytes past the current frame stay buffered
// for the next cycle, so a second invocation may resolve immediately
// without reading the stream at all.
func runnerBinary(conn *Conn, handler Handler, prefetch []byte) disposition {
	if prefetch != nil {
		conn.binDecoder.Feed(prefetch)
	}

	for {
		req, ok, err := conn.binDecoder.TryDecodeRequest()
		if err != nil {
			conn.log.Debugw("binary protocol error", "error", err)
			conn.binDecoder.Reset()
			sendBinaryResponse(conn, 0, err.Error(), nil)
			return dispContinue
		}
		if ok {
			result, errStr := dispatch(conn, handler, req.Method, req.Args, req.Kwargs)
			if errStr != "" {
				conn.log.Infow("handler error", "method", req.Method, "error", errStr)
			}
			sendBinaryResponse(conn, req.MsgID, errStr, result)
			return dispContinue
		}

		chunk := make([]byte, binaryChunkSize)
		n, readErr := conn.stream.Read(chunk)
		if n == 0 {
			return dispDisconnect
		}
		conn.binDecoder.Feed(chunk[:n])
		if readErr != nil {
			return dispDisconnect
		}
	}
}

func sendBinaryResponse(conn *Conn, msgID int64, errStr string, result Value) {
	var errVal interface{}
	if errStr != "" {
		errVal = errStr
	}

	var buf bytes.Buffer
	if err := binary.EncodeResponse(&buf, binary.Response{MsgID: msgID, Err: errVal, Result: result}); err != nil {
		conn.log.Debugw("binary encode error", "error", err)
		return
	}
	if err := conn.Write(buf.Bytes()); err != nil {
		conn.log.Debugw("binary write error", "error", err)
	}
}
