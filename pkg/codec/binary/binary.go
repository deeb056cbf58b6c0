// Package binary implements codec B, the binary packed wire encoding of
// SPEC_FULL.md §4.10 ("MSGPACK:"). It has no knowledge of sockets or
// framing beyond "one complete msgpack array value" — the connection
// loop and runner own the stream.
//
// Request shape: a 5-element array (0, msg_id, method_name, args,
// kwargs). Response shape: a 4-element array (1, msg_id, error, result).
package binary

import (
	"bytes"
	"io"

	"github.com/spiral/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	requestTag  = 0
	responseTag = 1
)

// Request is the decoded codec-B request tuple.
type Request struct {
	MsgID  int64
	Method string
	Args   []interface{}
	Kwargs map[string]interface{}
}

// Response is the codec-B response tuple ready for encoding.
type Response struct {
	MsgID  int64
	Err    interface{} // nil, or an error string
	Result interface{}
}

// EncodeResponse writes the 4-tuple (1, msg_id, err, result) to w.
func EncodeResponse(w io.Writer, resp Response) error {
	const op = errors.Op("binary encode response")
	enc := msgpack.NewEncoder(w)
	tuple := []interface{}{responseTag, resp.MsgID, resp.Err, resp.Result}
	if err := enc.Encode(tuple); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// EncodeRequest writes the 5-tuple (0, msg_id, method, args, kwargs) to
// w. Used by round-trip tests and by any in-process client shim.
func EncodeRequest(w io.Writer, msgID int64, method string, args []interface{}, kwargs map[string]interface{}) error {
	const op = errors.Op("binary encode request")
	enc := msgpack.NewEncoder(w)
	tuple := []interface{}{requestTag, msgID, method, args, kwargs}
	if err := enc.Encode(tuple); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// DecodeRequest decodes a single 5-tuple request from a complete,
// already-buffered byte slice. The connection runner does not use it;
// it decodes through StreamDecoder instead.
func DecodeRequest(b []byte) (Request, error) {
	const op = errors.Op("binary decode request")
	var raw []interface{}
	if err := msgpack.NewDecoder(bytes.NewReader(b)).Decode(&raw); err != nil {
		return Request{}, errors.E(op, err)
	}
	return parseRequestTuple(raw)
}

func parseRequestTuple(raw []interface{}) (Request, error) {
	const op = errors.Op("binary parse request")
	if len(raw) != 5 {
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

// StreamDecoder buffers bytes fed across multiple reads and yields one
// request each time the buffer holds a complete msgpack value,
// preserving the "persistent per connection, leftover bytes stay
// buffered for the next cycle" behavior of spec §4.2.
type StreamDecoder struct {
	buf bytes.Buffer
}

// NewStreamDecoder constructs an empty stream decoder. encoding is
// accepted for symmetry with the reference implementation's
// unpack_encoding parameter; msgpack/v5 always decodes strings as UTF-8.
func NewStreamDecoder(encoding string) *StreamDecoder {
	return &StreamDecoder{}
}

// Feed appends newly read bytes to the internal buffer.
func (d *StreamDecoder) Feed(b []byte) {
	d.buf.Write(b)
}

// Reset discards all buffered bytes. Called after an unrecoverable
// decode error so the next cycle does not keep re-parsing garbage.
func (d *StreamDecoder) Reset() {
	d.buf.Reset()
}

// TryDecodeRequest attempts to pull exactly one request tuple out of
// the buffered bytes. ok is false when the buffer does not yet hold a
// complete frame; the caller should Feed more and retry.
func (d *StreamDecoder) TryDecodeRequest() (req Request, ok bool, err error) {
	if d.buf.Len() == 0 {
		return Request{}, false, nil
	}

	snapshot := d.buf.Bytes()
	r := bytes.NewReader(snapshot)
	dec := msgpack.NewDecoder(r)

	var raw []interface{}
	decErr := dec.Decode(&raw)
	if decErr != nil {
		if isIncomplete(decErr) {
			return Request{}, false, nil
		}
		const op = errors.Op("binary decode request")
		return Request{}, false, errors.E(op, decErr)
	}

	consumed := len(snapshot) - r.Len()
	d.buf.Next(consumed)

	req, err = parseRequestTuple(raw)
	return req, true, err
}

func isIncomplete(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
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
		const op = errors.Op("binary parse args")
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
				const op = errors.Op("binary parse kwargs")
				return nil, errors.E(op, errors.Str("invalid protocol: kwargs key not a string"))
			}
			out[ks] = val
		}
		return out, nil
	default:
		const op = errors.Op("binary parse kwargs")
		return nil, errors.E(op, errors.Str("invalid protocol: kwargs not a mapping"))
	}
}
