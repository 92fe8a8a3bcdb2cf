package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared/timezone"
)

func TestGenerateCode(t *testing.T) {
	at, err := timezone.Parse("2006-01-02", "2026-03-10")
	assert.NoError(t, err)

	code, err := generateCode("BK", at)

	assert.NoError(t, err)
	assert.Len(t, code, 12)
	assert.Equal(t, "BK260310", code[:8])

	for _, r := range code[8:] {
		assert.Contains(t, codeSuffixAlphabet, string(r))
	}
}

func TestGenerateCodeVaries(t *testing.T) {
	at := timezone.Now()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := generateCode("BK", at)
		assert.NoError(t, err)

		seen[code] = true
	}

	// 4 random base36 characters make 50 collisions vanishingly unlikely.
	assert.Greater(t, len(seen), 1)
}
