package mprpc

// magicLen is the fixed size of the wire prefix every request cycle
// begins with, per spec §4.1.
const magicLen = 8

// Recognized magics (spec §6).
const (
	magicMSGPACK = "MSGPACK:"
	magicPICKLES = "PICKLES:"
	magicSTRINGS = "STRINGS:"
	magicURIHTTP = "URIHTTP:"
)

// Reserved magics: recognized, but their codecs are not implemented.
// Serve answers each with a codec-B protocol-error envelope (msg_id 0)
// and keeps the connection open for the next request.
var reservedMagics = map[string]bool{
	"UNKOWNS:": true,
	"FILEOBJ:": true,
	"BUFFERS:": true,
	"JSONSTR:": true,
	"BSONSTR:": true,
}
