package card

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/chacha20"
)

// streamRNG is a deterministic pseudo-random source backed by the ChaCha20
// keystream. The same seed always yields the same stream, independent of
// platform and Go version, which is what makes shuffles replayable.
type streamRNG struct {
	cipher *chacha20.Cipher
}

func newStreamRNG(seed uint64) (*streamRNG, error) {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, err
	}
	return &streamRNG{cipher: cipher}, nil
}

func (r *streamRNG) uint64() uint64 {
	var buf [8]byte
	r.cipher.XORKeyStream(buf[:], buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// intn returns a uniform value in [0, n) using rejection sampling, so the
// draw sequence depends only on the keystream, never on modulo bias.
func (r *streamRNG) intn(n int) int {
	if n <= 1 {
		return 0
	}
	limit := math.MaxUint64 - math.MaxUint64%uint64(n)
	for {
		v := r.uint64()
		if v < limit {
			return int(v % uint64(n))
		}
	}
}
