package mprpc

import "fmt"

// dispatch resolves method against handler and invokes it, uniformly
// across all four codecs (spec §4.6, §4.9). A panic inside the handler
// is treated the same as a returned error: stringified into the error
// envelope, connection left open (spec §7: "never crash the process
// from a single bad request").
func dispatch(conn *Conn, handler Handler, method string, args []Value, kwargs map[string]Value) (result Value, errStr string) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			errStr = fmt.Sprintf("%v", r)
		}
	}()

	m, err := resolve(handler, method)
	if err != nil {
		return nil, err.Error()
	}

	val, err := m(conn, args, kwargs)
	if err != nil {
		return nil, err.Error()
	}
	return val, ""
}
