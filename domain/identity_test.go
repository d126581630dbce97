package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerator_Pseudonym_Format(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(1)

	// When generating a pseudonym
	p := gen.Pseudonym()

	// Then it carries the marker prefix and six letters
	req.True(strings.HasPrefix(p, "🆔"))
	req.Len(strings.TrimPrefix(p, "🆔"), 6)
}

func TestGenerator_Code_Format(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(1)

	// When generating a display code
	code := gen.Code()

	// Then it is '#' plus four uppercase letters
	req.Len(code, 5)
	req.Equal(byte('#'), code[0])
	req.Equal(strings.ToUpper(code), code)
}

func TestGenerator_UniqueCode_Retries_Taken_Codes(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(42)

	// Given the first two candidates are already allocated
	rejected := 0
	code := gen.UniqueCode(func(candidate string) bool {
		rejected++
		return rejected <= 2
	})

	// Then the third candidate is returned
	req.Equal(3, rejected)
	req.NotEmpty(code)
}

func TestGenerator_Distinct_Outputs(t *testing.T) {
	req := require.New(t)
	gen := NewGenerator(7)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[gen.Pseudonym()] = struct{}{}
	}

	// Collisions over 50 draws from a 52^6 space would mean a broken source
	req.Len(seen, 50)
}
