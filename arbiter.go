package mprpc

import "sync"

// arbiter is the per-connection send lock of spec §4.7. It serializes
// whole-frame writes to the stream: every runner acquires it before the
// bulk write of an encoded response and releases it on every exit path.
// A handler may also write out-of-band (Conn.Write) while the response
// path is mid-flight if the host's task runtime interleaves them; the
// arbiter guarantees the two writes never interleave at sub-frame
// granularity, not that the request itself is atomic.
//
// In a strictly single-threaded cooperative runtime the mutex never
// blocks, so the zero value is usable as a no-op-shaped stand-in.
type arbiter struct {
	mu sync.Mutex
}

func (a *arbiter) acquire() { a.mu.Lock() }
func (a *arbiter) release() { a.mu.Unlock() }
