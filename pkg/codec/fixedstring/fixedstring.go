// Package fixedstring implements codec S, the fixed-width ASCII wire
// encoding of spec §4.4 ("STRINGS:"). Every header is exactly 30 bytes;
// everything past it, until the next header read, is an opaque body the
// handler fetches itself.
package fixedstring

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/spiral/errors"
)

// HeaderLen is the fixed size of both request and response headers.
const HeaderLen = 30

const (
	typeOffset   = 0
	typeLen      = 1
	msgIDOffset  = 1
	msgIDLen     = 8
	fieldOffset  = 9
	fieldLen     = 21
	requestType  = '0'
	responseType = '1'
)

// Header is the decoded 30-byte header, shared by requests and
// responses: for a request the Field slot carries the method name; for
// a response it carries the error text (all spaces == no error).
type Header struct {
	IsResponse bool
	MsgID      int64
	Field      string
}

// DecodeHeader parses an exact HeaderLen-byte slice.
func DecodeHeader(b []byte) (Header, error) {
	const op = errors.Op("fixedstring decode header")
	if len(b) != HeaderLen {
		return Header{}, errors.E(op, errors.Str("invalid protocol: header must be exactly 30 bytes"))
	}

	typeByte := b[typeOffset : typeOffset+typeLen][0]
	if typeByte != requestType && typeByte != responseType {
		return Header{}, errors.E(op, errors.Str("invalid protocol: unknown request-type byte"))
	}

	msgIDField := strings.TrimLeft(string(b[msgIDOffset:msgIDOffset+msgIDLen]), " ")
	var msgID int64
	if msgIDField != "" {
		var err error
		msgID, err = strconv.ParseInt(msgIDField, 10, 64)
		if err != nil {
			return Header{}, errors.E(op, errors.Str("invalid protocol: msg_id not numeric"))
		}
	}

	field := string(b[fieldOffset : fieldOffset+fieldLen])

	return Header{
		IsResponse: typeByte == responseType,
		MsgID:      msgID,
		Field:      field,
	}, nil
}

// DecodeRequestHeader parses a header and additionally rejects anything
// but a request type byte, matching _strings_parse_request's
// `int(req[0]) != MSGPACKRPC_REQUEST` check: a response frame fed to
// the request path is a protocol error, not silently accepted.
func DecodeRequestHeader(b []byte) (Header, error) {
	const op = errors.Op("fixedstring decode request header")
	h, err := DecodeHeader(b)
	if err != nil {
		return Header{}, err
	}
	if h.IsResponse {
		return Header{}, errors.E(op, errors.Str("invalid protocol: expected request type byte"))
	}
	return h, nil
}

// EncodeRequestHeader builds a 30-byte request header. method is
// right-aligned and space-padded to 21 bytes, matching the reference
// implementation's `'%1d%8d%21s'` formatting.
func EncodeRequestHeader(msgID int64, method string) []byte {
	return encodeHeader(requestType, msgID, padLeft(method, fieldLen))
}

// EncodeResponseHeader builds a 30-byte response header. The field slot
// carries errText, right-aligned and space-padded; 21 spaces means "no
// error", per spec §4.4/§4.9.
func EncodeResponseHeader(msgID int64, errText string) []byte {
	return encodeHeader(responseType, msgID, padLeft(errText, fieldLen))
}

func encodeHeader(typ byte, msgID int64, field string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(typ)
	buf.WriteString(padLeft(strconv.FormatInt(msgID, 10), msgIDLen))
	buf.WriteString(field)
	return buf.Bytes()
}

// HasError reports whether a response header's Field carries a non-space
// character anywhere (spec §4.4: "equality comparison ... any
// non-space character is an error").
func (h Header) HasError() bool {
	return strings.TrimSpace(h.Field) != ""
}

// MethodName trims the leading pad off a request header's Field
// (`req[2].lstrip()` in the reference: the field is right-aligned, so
// only leading spaces are padding).
func (h Header) MethodName() string {
	return strings.TrimLeft(h.Field, " ")
}

// ErrText trims the leading pad off a response header's Field.
func (h Header) ErrText() string {
	return strings.TrimLeft(h.Field, " ")
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return strings.Repeat(" ", n-len(s)) + s
}
