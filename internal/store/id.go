package store

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

var (
	idNonce   [5]byte
	idCounter uint32
)

func init() {
	if _, err := rand.Read(idNonce[:]); err != nil {
		panic("store: failed to seed id nonce: " + err.Error())
	}
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic("store: failed to seed id counter: " + err.Error())
	}
	idCounter = binary.BigEndian.Uint32(seed[:])
}

// newID returns a 24-character lowercase hex identifier: 4 bytes of unix
// seconds, a 5-byte per-process nonce and a 3-byte monotonic counter.
// Identifiers are opaque, globally unique and sort by creation time.
func newID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	copy(b[4:9], idNonce[:])
	c := atomic.AddUint32(&idCounter, 1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}
