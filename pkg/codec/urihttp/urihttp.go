// Package urihttp implements codec U, the URI-form wire encoding of
// spec §4.5 ("URIHTTP:"). Every request is exactly 512 bytes,
// space-padded on the right; the response reuses codec S's 30-byte
// header layout, so the response side lives in package fixedstring.
package urihttp

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spiral/errors"
)

// PayloadLen is the fixed size of every codec-U request frame.
const PayloadLen = 512

// msgIDKwarg is the distinguished named argument that carries msg_id
// out of band in the query string, per spec §4.5.
const msgIDKwarg = "msgsysid"

// Request is the decoded codec-U request.
type Request struct {
	MsgID  int64
	Method string
	Args   []string
	Kwargs map[string]string
}

// Decode parses a (possibly space-padded) 512-byte payload into a
// Request, applying the rules of spec §4.5 in order.
func Decode(payload []byte) (Request, error) {
	const op = errors.Op("urihttp decode")

	s := strings.TrimSpace(string(payload))
	if strings.Contains(s, "|") && !strings.Contains(s, "?") {
		s = strings.Replace(s, "|", "?", 1)
	}

	path := s
	query := ""
	if idx := strings.IndexByte(s, '?'); idx != -1 {
		path = s[:idx]
		query = s[idx+1:]
		if h := strings.IndexByte(query, '#'); h != -1 {
			query = query[:h]
		}
	} else if h := strings.IndexByte(path, '#'); h != -1 {
		path = path[:h]
	}

	method, args := parsePath(path)

	kwargs, msgID, err := parseQuery(query)
	if err != nil {
		return Request{}, errors.E(op, err)
	}

	return Request{MsgID: msgID, Method: method, Args: args, Kwargs: kwargs}, nil
}

func parsePath(path string) (method string, args []string) {
	segments := strings.Split(path, "/")
	nonEmpty := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" {
			nonEmpty = append(nonEmpty, seg)
		}
	}
	if len(nonEmpty) == 0 {
		return "default", nil
	}
	return nonEmpty[0], nonEmpty[1:]
}

func parseQuery(query string) (map[string]string, int64, error) {
	const op = errors.Op("urihttp parse query")
	kwargs := map[string]string{}
	if query == "" {
		return kwargs, 0, nil
	}

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		idx := strings.IndexByte(pair, '=')
		if idx == -1 {
			continue
		}
		k, v := pair[:idx], pair[idx+1:]
		if strings.Contains(v, "%") {
			decoded, err := url.QueryUnescape(v)
			if err != nil {
				return nil, 0, errors.E(op, err)
			}
			v = decoded
		}
		kwargs[k] = v
	}

	var msgID int64
	if raw, ok := kwargs[msgIDKwarg]; ok {
		delete(kwargs, msgIDKwarg)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, 0, errors.E(op, errors.Str("invalid protocol: msgsysid not an integer"))
		}
		msgID = n
	}

	return kwargs, msgID, nil
}

// Encode builds a space-padded 512-byte request payload from a method,
// positional args, and keyword args, mirroring the decode rules. Used by
// round-trip tests and any in-process client shim.
func Encode(method string, args []string, kwargs map[string]string, msgID int64) ([]byte, error) {
	const op = errors.Op("urihttp encode")

	var b strings.Builder
	b.WriteString(method)
	for _, a := range args {
		b.WriteByte('/')
		b.WriteString(a)
	}

	if len(kwargs) > 0 || msgID != 0 {
		b.WriteByte('?')
		first := true
		for k, v := range kwargs {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
		if msgID != 0 {
			if !first {
				b.WriteByte('&')
			}
			b.WriteString(msgIDKwarg)
			b.WriteByte('=')
			b.WriteString(strconv.FormatInt(msgID, 10))
		}
	}

	payload := b.String()
	if len(payload) > PayloadLen {
		return nil, errors.E(op, errors.Str("invalid protocol: payload exceeds 512 bytes"))
	}
	return []byte(payload + strings.Repeat(" ", PayloadLen-len(payload))), nil
}
