package pickle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeResponseFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeResponse(&buf, Response{MsgID: 1, Err: nil, Result: "ok"}))

	b := buf.Bytes()
	require.NotEmpty(t, b)
	require.Equal(t, byte(opMark), b[0])
	require.Equal(t, byte(opStop), b[len(b)-1])
}

func TestEncodeRequestFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRequest(&buf, 3, "sum", []interface{}{int64(1), int64(2)}, map[string]interface{}{}))

	b := buf.Bytes()
	require.Equal(t, byte(opMark), b[0])
	require.Equal(t, byte(opStop), b[len(b)-1])
	require.Contains(t, b, byte(opTuple))
}

func TestToArgsSliceRejectsNonSequence(t *testing.T) {
	_, err := toArgsSlice("not a sequence")
	require.Error(t, err)
}

func TestToKwargsMapAcceptsInterfaceKeyedMap(t *testing.T) {
	m, err := toKwargsMap(map[interface{}]interface{}{"k": "v"})
	require.NoError(t, err)
	require.Equal(t, "v", m["k"])
}

func TestToKwargsMapRejectsNonStringKey(t *testing.T) {
	_, err := toKwargsMap(map[interface{}]interface{}{1: "v"})
	require.Error(t, err)
}
