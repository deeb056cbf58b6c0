package mprpc

import (
	"bytes"

	"github.com/lihuimail/mprpc/pkg/codec/pickle"
)

// pickleRecvSize is the single-recv framing assumption of spec §4.3:
// "one recv of up to 1 MiB is assumed to contain one complete pickled
// request."
const pickleRecvSize = 1 << 20

// runnerPickle implements codec P (spec §4.3). Unlike codec B, there is
// no persistent decoder: the whole request must arrive in one read.
func runnerPickle(conn *Conn, handler Handler, prefetch []byte) disposition {
	data := prefetch
	if data == nil {
		chunk := make([]byte, pickleRecvSize)
		n, _ := conn.stream.Read(chunk)
		if n == 0 {
			return dispDisconnect
		}
		data = chunk[:n]
	}

	req, err := pickle.DecodeRequest(data)
	if err != nil {
		conn.log.Debugw("pickle protocol error", "error", err)
		sendPickleResponse(conn, 0, err.Error(), nil)
		return dispContinue
	}

	result, errStr := dispatch(conn, handler, req.Method, req.Args, req.Kwargs)
	if errStr != "" {
		conn.log.Infow("handler error", "method", req.Method, "error", errStr)
	}
	sendPickleResponse(conn, req.MsgID, errStr, result)
	return dispContinue
}

func sendPickleResponse(conn *Conn, msgID int64, errStr string, result Value) {
	var errVal interface{}
	if errStr != "" {
		errVal = errStr
	}

	var buf bytes.Buffer
	if err := pickle.EncodeResponse(&buf, pickle.Response{MsgID: msgID, Err: errVal, Result: result}); err != nil {
		conn.log.Debugw("pickle encode error", "error", err)
		return
	}
	if err := conn.Write(buf.Bytes()); err != nil {
		conn.log.Debugw("pickle write error", "error", err)
	}
}
