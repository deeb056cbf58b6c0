package mprpc

import (
	"reflect"
	"strings"

	"github.com/spiral/errors"
)

// Handler is an arbitrary user object. Any exported method matching one
// of the two signatures below becomes an RPC endpoint:
//
//	func(args []mprpc.Value, kwargs map[string]mprpc.Value) (mprpc.Value, error)
//	func(conn *mprpc.Conn, args []mprpc.Value, kwargs map[string]mprpc.Value) (mprpc.Value, error)
//
// The second form additionally receives the owning Conn, so it can call
// the stream escape hatches of §4.8 (Conn.Read / Conn.Write) to consume
// or produce a body outside the codec's own framing.
//
// Method names starting with "_" are never dispatched, matching the
// source's underscore-prefix privacy rule, regardless of whether a
// matching attribute exists. Wire method names are mapped onto exported
// Go identifiers (see exportedName): "sum" resolves Handler.Sum,
// "test_connect" resolves Handler.TestConnect.
type Handler interface{}

type resolvedMethod func(conn *Conn, args []Value, kwargs map[string]Value) (Value, error)

var (
	typeArgs   = reflect.TypeOf([]Value(nil))
	typeKwargs = reflect.TypeOf(map[string]Value(nil))
	typeValue  = reflect.TypeOf((*Value)(nil)).Elem()
	typeError  = reflect.TypeOf((*error)(nil)).Elem()
	typeConn   = reflect.TypeOf((*Conn)(nil))
)

// resolve looks up name on h and returns a uniform callable, applying the
// rules of spec §4.6 in order:
//  1. name must be non-empty and must not start with "_".
//  2. h must expose an attribute by that exact name.
//  3. the attribute must be callable (a method with a recognized
//     signature).
//
// Every handler additionally answers "test_connect" even if it defines
// no such method itself, returning the ASCII liveness string "1".
func resolve(h Handler, name string) (resolvedMethod, error) {
	const op = errors.Op("resolve method")

	if name == "" || strings.HasPrefix(name, "_") {
		return nil, methodNotFound(op, name)
	}

	if name == "test_connect" {
		if m, ok := lookupMethod(h, name); ok {
			return m, nil
		}
		return func(*Conn, []Value, map[string]Value) (Value, error) {
			return "1", nil
		}, nil
	}

	m, ok := lookupMethod(h, name)
	if !ok {
		return nil, methodNotFound(op, name)
	}
	return m, nil
}

func lookupMethod(h Handler, name string) (resolvedMethod, bool) {
	if h == nil {
		return nil, false
	}

	v := reflect.ValueOf(h)
	m := v.MethodByName(exportedName(name))
	if !m.IsValid() {
		return nil, false
	}

	mt := m.Type()
	switch {
	case mt.NumIn() == 2 && mt.In(0) == typeArgs && mt.In(1) == typeKwargs && isResultSig(mt):
		return func(_ *Conn, args []Value, kwargs map[string]Value) (Value, error) {
			out := m.Call([]reflect.Value{reflect.ValueOf(args), reflect.ValueOf(kwargs)})
			return unpackResult(out)
		}, true
	case mt.NumIn() == 3 && mt.In(0) == typeConn && mt.In(1) == typeArgs && mt.In(2) == typeKwargs && isResultSig(mt):
		return func(conn *Conn, args []Value, kwargs map[string]Value) (Value, error) {
			out := m.Call([]reflect.Value{reflect.ValueOf(conn), reflect.ValueOf(args), reflect.ValueOf(kwargs)})
			return unpackResult(out)
		}, true
	default:
		return nil, false
	}
}

func isResultSig(mt reflect.Type) bool {
	return mt.NumOut() == 2 && mt.Out(0) == typeValue && mt.Out(1) == typeError
}

func unpackResult(out []reflect.Value) (Value, error) {
	val := out[0].Interface()
	errVal := out[1].Interface()
	if errVal == nil {
		return val, nil
	}
	return val, errVal.(error)
}

// exportedName maps a wire method name ("sum", "test_connect") onto the
// exported Go identifier a handler must define ("Sum", "TestConnect"),
// since reflection can only reach exported methods. snake_case segments
// are title-cased and joined; a name with no underscore is just
// capitalized.
func exportedName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
