package game

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// byteStream yields the deterministic byte sequence for one
// (serverSeed, clientSeed, nonce) triple. Each 32-byte block is
// HMAC-SHA256(serverSeed, "clientSeed:nonce:round") where round is the
// block index; the cursor addresses a byte offset into that sequence so
// independent draws within a round never overlap.
type byteStream struct {
	serverSeed string
	clientSeed string
	nonce      uint64

	round       int
	roundCursor int
	buffer      [32]byte
}

func newByteStream(serverSeed, clientSeed string, nonce uint64, cursor int) *byteStream {
	bs := &byteStream{
		serverSeed:  serverSeed,
		clientSeed:  clientSeed,
		nonce:       nonce,
		round:       cursor / 32,
		roundCursor: cursor % 32,
	}
	bs.fill()
	return bs
}

func (bs *byteStream) fill() {
	h := hmac.New(sha256.New, []byte(bs.serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", bs.clientSeed, bs.nonce, bs.round)
	copy(bs.buffer[:], h.Sum(nil))
}

func (bs *byteStream) next() byte {
	if bs.roundCursor >= 32 {
		bs.round++
		bs.roundCursor = 0
		bs.fill()
	}

	b := bs.buffer[bs.roundCursor]
	bs.roundCursor++
	return b
}

// Floats derives count values in [0,1) starting at the given cursor,
// consuming 4 bytes per value. It is a pure function: identical inputs
// produce identical output on any machine, forever.
func Floats(serverSeed, clientSeed string, nonce uint64, cursor, count int) []float64 {
	bs := newByteStream(serverSeed, clientSeed, nonce, cursor*4)
	floats := make([]float64, count)

	for i := range floats {
		b0 := bs.next()
		b1 := bs.next()
		b2 := bs.next()
		b3 := bs.next()

		floats[i] = float64(b0)/256.0 +
			float64(b1)/(256.0*256.0) +
			float64(b2)/(256.0*256.0*256.0) +
			float64(b3)/(256.0*256.0*256.0*256.0)
	}

	return floats
}

// FloatAt derives the single value at subIndex. Equivalent to
// Floats(..., subIndex, 1)[0]; resolvers that draw one value at a time
// (keno duplicate rejection, card deals) use this via Stream.FloatAt.
func FloatAt(serverSeed, clientSeed string, nonce uint64, subIndex int) float64 {
	return Floats(serverSeed, clientSeed, nonce, subIndex, 1)[0]
}
