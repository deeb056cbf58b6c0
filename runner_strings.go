package mprpc

import "github.com/lihuimail/mprpc/pkg/codec/fixedstring"

// runnerStrings implements codec S (spec §4.4). args/kwargs are always
// empty at dispatch time; a handler that wants the request body calls
// conn.Read(n) itself.
func runnerStrings(conn *Conn, handler Handler, prefetch []byte) disposition {
	headerBytes, disp, err := conn.readExact(fixedstring.HeaderLen)
	if disp == dispDisconnect {
		if err != nil {
			conn.log.Debugw("strings protocol error reading header", "error", err)
		}
		return dispDisconnect
	}

	header, err := fixedstring.DecodeRequestHeader(headerBytes)
	if err != nil {
		// Unrecoverable frame: spec §4.9 closes the connection for S/U
		// decode errors rather than sending an error envelope.
		conn.log.Debugw("strings protocol error", "error", err)
		return dispDisconnect
	}

	method := header.MethodName()
	result, errStr := dispatch(conn, handler, method, nil, nil)
	if errStr != "" {
		conn.log.Infow("handler error", "method", method, "error", errStr)
	}

	respHeader := fixedstring.EncodeResponseHeader(header.MsgID, errStr)
	if err := conn.Write(respHeader); err != nil {
		conn.log.Debugw("strings write error", "error", err)
		return dispContinue
	}
	writeResultBody(conn, result)
	return dispContinue
}
