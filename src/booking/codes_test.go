package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, codeLength)
		for _, c := range code {
			assert.Contains(t, codeAlphabet, string(c))
		}
	}
}

func TestGenerateCodeNoObviousRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "code %s generated twice", code)
		seen[code] = true
	}
}

func TestCodeAlphabetExcludesLowercase(t *testing.T) {
	assert.Equal(t, strings.ToUpper(codeAlphabet), codeAlphabet)
	assert.Len(t, codeAlphabet, 36)
}
