package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	codeSuffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeSuffixLength   = 4
)

// generateCode builds a booking code like BK2608283F7Q: prefix, the booking
// date as YYMMDD, and a random base36 suffix. The suffix alone carries the
// uniqueness; collisions surface as unique violations and the caller retries
// with a fresh suffix.
func generateCode(prefix string, at time.Time) (string, error) {
	suffix := make([]byte, codeSuffixLength)

	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeSuffixAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking code suffix: %w", err)
		}

		suffix[i] = codeSuffixAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s%s%s", prefix, at.Format("060102"), suffix), nil
}
