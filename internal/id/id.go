// Package id generates the random identifiers used as primary keys
// across the store.
package id

import "crypto/rand"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength = 16
)

// GenerateID returns a random lowercase alphanumeric identifier, safe
// for use in URLs and upload filenames.
func GenerateID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		panic("id: " + err.Error())
	}
	out := make([]byte, idLength)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
