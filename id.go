package rslock

import "crypto/rand"

// valueLength is the number of random bytes used as a lock's stored value.
// 20 bytes gives a collision probability across the service's lifetime that
// is treated as negligible (2^-160).
const valueLength = 20

// uniqueValue fills a valueLength-byte buffer from a cryptographically
// secure random source. It is called once per acquisition attempt; the
// result is never reused across attempts or resources.
func uniqueValue() ([]byte, error) {
	b := make([]byte, valueLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
