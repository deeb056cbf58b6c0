package mprpc

// Value is a tagged-variant argument or result value flowing through the
// decoder, the handler, and the encoder. Concrete dynamic types are the
// ones msgpack and pickle both know how to carry: signed/unsigned
// integers, floats, strings, byte blobs, sequences, mappings, and nil.
//
// Value is an alias for interface{}, not a distinct defined type: codec
// decoders hand back plain map[string]interface{}/[]interface{} trees,
// and aliasing lets those flow straight through handler signatures
// without a conversion pass at the boundary.
type Value = interface{}

// Codec names one of the four wire encodings this server understands.
type Codec int

const (
	// CodecB is the binary packed codec ("MSGPACK:").
	CodecB Codec = iota
	// CodecP is the pickled object codec ("PICKLES:").
	CodecP
	// CodecS is the fixed-width ASCII codec ("STRINGS:").
	CodecS
	// CodecU is the URI-form codec ("URIHTTP:").
	CodecU
)

func (c Codec) String() string {
	switch c {
	case CodecB:
		return "B"
	case CodecP:
		return "P"
	case CodecS:
		return "S"
	case CodecU:
		return "U"
	default:
		return "?"
	}
}
