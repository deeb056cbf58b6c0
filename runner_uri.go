package mprpc

import (
	"github.com/lihuimail/mprpc/pkg/codec/fixedstring"
	"github.com/lihuimail/mprpc/pkg/codec/urihttp"
)

// runnerURI implements codec U (spec §4.5). The response reuses codec
// S's 30-byte header layout; body streaming is identical to codec S.
func runnerURI(conn *Conn, handler Handler, prefetch []byte) disposition {
	payload, disp, err := conn.readExact(urihttp.PayloadLen)
	if disp == dispDisconnect {
		if err != nil {
			conn.log.Debugw("urihttp protocol error reading payload", "error", err)
		}
		return dispDisconnect
	}

	req, err := urihttp.Decode(payload)
	if err != nil {
		conn.log.Debugw("urihttp protocol error", "error", err)
		return dispDisconnect
	}

	args := make([]Value, len(req.Args))
	for i, a := range req.Args {
		args[i] = a
	}
	kwargs := make(map[string]Value, len(req.Kwargs))
	for k, v := range req.Kwargs {
		kwargs[k] = v
	}

	result, errStr := dispatch(conn, handler, req.Method, args, kwargs)
	if errStr != "" {
		conn.log.Infow("handler error", "method", req.Method, "error", errStr)
	}

	respHeader := fixedstring.EncodeResponseHeader(req.MsgID, errStr)
	if err := conn.Write(respHeader); err != nil {
		conn.log.Debugw("urihttp write error", "error", err)
		return dispContinue
	}
	writeResultBody(conn, result)
	return dispContinue
}
