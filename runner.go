package mprpc

// runner is one of the four per-codec request-cycle state machines of
// spec §4.2–4.5: read -> decode -> dispatch -> encode -> write. prefetch
// carries bytes the connection loop already consumed off the stream
// before it knew which runner to hand them to (the legacy no-magic
// fallback of spec §4.1 step 4); it is nil in the normal, magic-prefixed
// case.
type runner func(conn *Conn, handler Handler, prefetch []byte) disposition
