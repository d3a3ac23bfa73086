// Package rand generates random test data. The generator is seeded
// once and guarded by a mutex so parallel tests can share it.
package rand

import (
	"math/rand"
	"sync"
	"time"
)

var (
	once sync.Once
	mu   sync.Mutex
	rgen *rand.Rand
)

func seed() {
	rgen = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec
}

// Bytes returns n random bytes.
func Bytes(n int) []byte {
	once.Do(seed)
	buf := make([]byte, n)
	mu.Lock()
	_, _ = rgen.Read(buf)
	mu.Unlock()
	return buf
}

// LetterBytes returns n random bytes picked in the [0-9]|[a-z] range.
func LetterBytes(n int) []byte {
	buf := Bytes(n)
	for i, b := range buf {
		buf[i] = letters[b]
	}
	return buf
}

// LetterString returns a random string picked in the [0-9]|[a-z] range.
func LetterString(n int) string {
	return string(LetterBytes(n))
}

var letters = makeLetters()

func makeLetters() []byte {
	// padded with extra "a" so the table covers the whole byte range
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789a"
	var out []byte
	for len(out) < 256 {
		out = append(out, alphabet...)
	}
	return out[:256]
}
