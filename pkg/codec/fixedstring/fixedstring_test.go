package fixedstring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRequestHeaderRoundTrip(t *testing.T) {
	b := EncodeRequestHeader(1, "bday")
	require.Len(t, b, HeaderLen)

	h, err := DecodeHeader(b)
	require.NoError(t, err)
	require.False(t, h.IsResponse)
	require.Equal(t, int64(1), h.MsgID)
	require.Equal(t, "bday", h.MethodName())
}

func TestHeaderMethodFieldIsRightAlignedLeftPadded(t *testing.T) {
	// server_tornado.py formats the field with '%21s' (right-aligned,
	// left-padded) and recovers it with `.lstrip()`; spec §8 scenario 3's
	// literal request agrees. See DESIGN.md.
	b := EncodeRequestHeader(1, "bday")
	require.Equal(t, "0       1"+strings.Repeat(" ", 17)+"bday", string(b))
}

func TestEncodeDecodeResponseHeaderNoError(t *testing.T) {
	b := EncodeResponseHeader(1, "")
	h, err := DecodeHeader(b)
	require.NoError(t, err)
	require.True(t, h.IsResponse)
	require.False(t, h.HasError())
}

func TestEncodeDecodeResponseHeaderWithError(t *testing.T) {
	b := EncodeResponseHeader(3, "Method not found: _private")
	h, err := DecodeHeader(b)
	require.NoError(t, err)
	require.True(t, h.HasError())
	require.Equal(t, "Method not found: _pr", h.ErrText()) // truncated to 21 bytes
}

func TestDecodeHeaderRejectsWrongLength(t *testing.T) {
	_, err := DecodeHeader([]byte("short"))
	require.Error(t, err)
}

func TestDecodeRequestHeaderRejectsResponseTypeByte(t *testing.T) {
	b := EncodeResponseHeader(1, "")
	_, err := DecodeRequestHeader(b)
	require.Error(t, err)
}

func TestMsgIDEqualityIgnoresLeadingSpaces(t *testing.T) {
	b := EncodeResponseHeader(1, "")
	h, err := DecodeHeader(b)
	require.NoError(t, err)
	require.Equal(t, int64(1), h.MsgID)
}
