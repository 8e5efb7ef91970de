package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes read from crypto/rand.
// crypto/rand does not fail on supported platforms; a failure is fatal.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Nil slices are ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
