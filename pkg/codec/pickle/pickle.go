// Package pickle implements codec P, the pickled-object wire encoding of
// SPEC_FULL.md §4.11 ("PICKLES:"). Framing is the caller's problem (spec
// §4.3: "one recv of up to 1 MiB is assumed to contain one complete
// pickled request") — this package only turns bytes into a request/
// response tuple and back.
//
// Decoding uses github.com/hydrogen18/stalecucumber, an ecosystem
// implementation of Python's pickle wire format. stalecucumber does not
// implement the encode direction, so responses are written with a
// small protocol-0 (the original ASCII pickle protocol, readable by any
// Python version) encoder scoped to the handful of value shapes this
// framework ever needs to send back: nil, bool, integers, floats,
// strings/bytes, sequences, and string-keyed mappings.
package pickle

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/hydrogen18/stalecucumber"
	"github.com/spiral/errors"
)

const (
	requestTag  = 0
	responseTag = 1
)

// Request is the decoded codec-P request tuple, identical in shape to
// codec B's.
type Request struct {
	MsgID  int64
	Method string
	Args   []interface{}
	Kwargs map[string]interface{}
}

// Response is the codec-P response tuple ready for encoding.
type Response struct {
	MsgID  int64
	Err    interface{}
	Result interface{}
}

// DecodeRequest unpickles a single complete frame.
func DecodeRequest(b []byte) (Request, error) {
	const op = errors.Op("pickle decode request")

	obj, err := stalecucumber.Unpickle(bytes.NewReader(b))
	if err != nil {
		return Request{}, errors.E(op, err)
	}

	raw, ok := obj.([]interface{})
	if !ok || len(raw) != 5 {
		return Request{}, errors.E(op, errors.Str("invalid protocol: expected 5-element request tuple"))
	}

	tag, ok := toInt64(raw[0])
	if !ok || tag != requestTag {
		return Request{}, errors.E(op, errors.Str("invalid protocol: wrong leading tag"))
	}
	msgID, ok := toInt64(raw[1])
	if !ok {
		return Request{}, errors.E(op, errors.Str("invalid protocol: msg_id not an integer"))
	}
	method, ok := raw[2].(string)
	if !ok {
		return Request{}, errors.E(op, errors.Str("invalid protocol: method name not a string"))
	}

	args, err := toArgsSlice(raw[3])
	if err != nil {
		return Request{}, errors.E(op, err)
	}
	kwargs, err := toKwargsMap(raw[4])
	if err != nil {
		return Request{}, errors.E(op, err)
	}

	return Request{MsgID: msgID, Method: method, Args: args, Kwargs: kwargs}, nil
}

// EncodeResponse pickles the 4-tuple (1, msg_id, err, result) to w.
func EncodeResponse(w io.Writer, resp Response) error {
	const op = errors.Op("pickle encode response")
	var buf bytes.Buffer
	if err := encodeTuple(&buf, []interface{}{responseTag, resp.MsgID, resp.Err, resp.Result}); err != nil {
		return errors.E(op, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// EncodeRequest pickles the 5-tuple (0, msg_id, method, args, kwargs) to
// w. Used by round-trip tests and any in-process client shim.
func EncodeRequest(w io.Writer, msgID int64, method string, args []interface{}, kwargs map[string]interface{}) error {
	const op = errors.Op("pickle encode request")
	var buf bytes.Buffer
	if err := encodeTuple(&buf, []interface{}{requestTag, msgID, method, args, kwargs}); err != nil {
		return errors.E(op, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toArgsSlice(v interface{}) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	args, ok := v.([]interface{})
	if !ok {
		const op = errors.Op("pickle parse args")
		return nil, errors.E(op, errors.Str("invalid protocol: args not a sequence"))
	}
	return args, nil
}

func toKwargsMap(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch m := v.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				const op = errors.Op("pickle parse kwargs")
				return nil, errors.E(op, errors.Str("invalid protocol: kwargs key not a string"))
			}
			out[ks] = val
		}
		return out, nil
	default:
		const op = errors.Op("pickle parse kwargs")
		return nil, errors.E(op, errors.Str("invalid protocol: kwargs not a mapping"))
	}
}

// --- minimal protocol-0 encoder -------------------------------------

const (
	opMark   = '('
	opStop   = '.'
	opNone   = 'N'
	opString = 'S'
	opInt    = 'I'
	opFloat  = 'F'
	opTuple  = 't'
	opList   = 'l'
	opDict   = 'd'
)

func encodeTuple(w *bytes.Buffer, items []interface{}) error {
	w.WriteByte(opMark)
	for _, item := range items {
		if err := encodeValue(w, item); err != nil {
			return err
		}
	}
	w.WriteByte(opTuple)
	w.WriteByte(opStop)
	return nil
}

func encodeValue(w *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case nil:
		w.WriteByte(opNone)
	case bool:
		if t {
			w.WriteString("I01\n")
		} else {
			w.WriteString("I00\n")
		}
	case int:
		writeInt(w, int64(t))
	case int8:
		writeInt(w, int64(t))
	case int16:
		writeInt(w, int64(t))
	case int32:
		writeInt(w, int64(t))
	case int64:
		writeInt(w, t)
	case uint:
		writeInt(w, int64(t))
	case uint8:
		writeInt(w, int64(t))
	case uint16:
		writeInt(w, int64(t))
	case uint32:
		writeInt(w, int64(t))
	case uint64:
		writeInt(w, int64(t))
	case float32:
		writeFloat(w, float64(t))
	case float64:
		writeFloat(w, t)
	case string:
		writeString(w, t)
	case []byte:
		writeString(w, string(t))
	case []interface{}:
		w.WriteByte(opMark)
		for _, item := range t {
			if err := encodeValue(w, item); err != nil {
				return err
			}
		}
		w.WriteByte(opList)
	case map[string]interface{}:
		w.WriteByte(opMark)
		for k, val := range t {
			writeString(w, k)
			if err := encodeValue(w, val); err != nil {
				return err
			}
		}
		w.WriteByte(opDict)
	default:
		return fmt.Errorf("pickle: unsupported value type %T", v)
	}
	return nil
}

func writeInt(w *bytes.Buffer, n int64) {
	w.WriteByte(opInt)
	w.WriteString(strconv.FormatInt(n, 10))
	w.WriteByte('\n')
}

func writeFloat(w *bytes.Buffer, f float64) {
	w.WriteByte(opFloat)
	w.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	w.WriteByte('\n')
}

// writeString emits the STRING opcode with a single-quoted, escaped
// payload, the textual form every cPickle build since 2.x accepts.
func writeString(w *bytes.Buffer, s string) {
	w.WriteByte(opString)
	w.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '\\':
			w.WriteString(`\\`)
		case '\'':
			w.WriteString(`\'`)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		default:
			if b < 0x20 || b >= 0x7f {
				fmt.Fprintf(w, `\x%02x`, b)
			} else {
				w.WriteByte(b)
			}
		}
	}
	w.WriteByte('\'')
	w.WriteByte('\n')
}
