package qrtoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeAlphabetExcludesAmbiguousSymbols(t *testing.T) {
	assert.Len(t, codeAlphabet, 32)
	for _, banned := range "IO01L" {
		assert.NotContains(t, codeAlphabet, string(banned))
	}
}

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := newCode()
		require.NoError(t, err)
		require.Len(t, code, codeLength)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected symbol %q", r)
		}

		assert.False(t, seen[code], "code %s generated twice", code)
		seen[code] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCDEFGH23", normalizeCode("  abcdefgh23 "))
	assert.Equal(t, "", normalizeCode("   "))
}
