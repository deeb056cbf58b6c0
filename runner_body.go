package mprpc

import "fmt"

// writeResultBody sends a handler's return value as the response body
// for codecs S and U (spec §4.4, §4.8): a StreamResult is drained to the
// stream without re-framing; anything else is written as bytes.
func writeResultBody(conn *Conn, result Value) {
	if sr, ok := result.(StreamResult); ok {
		streamToConn(conn, sr.Reader)
		return
	}
	if err := conn.Write(valueToBytes(result)); err != nil {
		conn.log.Debugw("body write error", "error", err)
	}
}

type reader interface {
	Read(p []byte) (int, error)
}

func streamToConn(conn *Conn, r reader) {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := conn.Write(buf[:n]); werr != nil {
				conn.log.Debugw("stream write error", "error", werr)
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func valueToBytes(v Value) []byte {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte(fmt.Sprint(t))
	}
}
