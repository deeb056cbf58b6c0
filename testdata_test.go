package mprpc

import "errors"

// testPeer is a minimal PeerAddr for tests.
type testPeer string

func (p testPeer) String() string { return string(p) }

// testHandler exercises the three resolver paths tests care about: a
// plain (args, kwargs) method, a connection-aware method that reads the
// stream body, and a method that returns an error.
type testHandler struct{}

func (testHandler) Sum(args []Value, kwargs map[string]Value) (Value, error) {
	a, _ := args[0].(int64)
	b, _ := args[1].(int64)
	return a + b, nil
}

func (testHandler) Boom(args []Value, kwargs map[string]Value) (Value, error) {
	return nil, errors.New("boom")
}

func (testHandler) Bday(conn *Conn, args []Value, kwargs map[string]Value) (Value, error) {
	body, err := conn.Read(5)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (testHandler) TestConnect(conn *Conn, args []Value, kwargs map[string]Value) (Value, error) {
	return "ok", nil
}

func (testHandler) Test(args []Value, kwargs map[string]Value) (Value, error) {
	return "ok", nil
}
