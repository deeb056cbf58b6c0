package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestEncodeDecodeRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	args := []interface{}{int64(1), int64(2)}
	kwargs := map[string]interface{}{"k": "v"}

	require.NoError(t, EncodeRequest(&buf, 7, "sum", args, kwargs))

	req, err := DecodeRequest(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, int64(7), req.MsgID)
	require.Equal(t, "sum", req.Method)
	require.Equal(t, args, req.Args)
	require.Equal(t, kwargs, req.Kwargs)
}

func TestEncodeResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResponse(&buf, Response{MsgID: 1, Err: nil, Result: int64(3)}))
	require.NotEmpty(t, buf.Bytes())
}

func TestStreamDecoderBuffersPartialFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRequest(&buf, 2, "sum", []interface{}{int64(1), int64(2)}, map[string]interface{}{}))
	full := buf.Bytes()

	d := NewStreamDecoder("utf-8")
	// feed everything but the last byte: no complete frame yet.
	d.Feed(full[:len(full)-1])
	_, ok, err := d.TryDecodeRequest()
	require.NoError(t, err)
	require.False(t, ok)

	// feed the rest, plus a whole second frame.
	d.Feed(full[len(full)-1:])
	d.Feed(full)

	req, ok, err := d.TryDecodeRequest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sum", req.Method)

	// the second frame's bytes remain buffered for the next cycle.
	req2, ok, err := d.TryDecodeRequest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), req2.MsgID)
}

func TestDecodeRequestRejectsWrongArity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode([]interface{}{0, 1, "sum"}))

	_, err := DecodeRequest(buf.Bytes())
	require.Error(t, err)
}
