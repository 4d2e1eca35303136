package qrtoken

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet holds 32 symbols with visually ambiguous characters
// (0/O, 1/I/L) removed.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 10

// newCode generates a code via rejection sampling over crypto/rand bytes so
// every alphabet symbol is equiprobable.
func newCode() (string, error) {
	const max = 256 - (256 % len(codeAlphabet))

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)

	for len(out) < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= max {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}

	return string(out), nil
}
