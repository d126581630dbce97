package domain

import (
	"math/rand"
	"strings"
	"sync"
)

const (
	pseudonymPrefix  = "🆔"
	pseudonymLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	pseudonymLen     = 6
	codePrefix       = "#"
	codeLetters      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLen          = 4
)

// Generator produces random pseudonyms and short display codes.
// Safe for concurrent use.
type Generator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rand: rand.New(rand.NewSource(seed))}
}

// Pseudonym returns a fresh random pseudonym, e.g. "🆔kQxTvB".
func (g *Generator) Pseudonym() string {
	return pseudonymPrefix + g.pick(pseudonymLetters, pseudonymLen)
}

// Code returns a fresh display code, e.g. "#WXYZ". Use UniqueCode when the
// caller needs uniqueness among already-allocated codes.
func (g *Generator) Code() string {
	return codePrefix + g.pick(codeLetters, codeLen)
}

// UniqueCode retries until taken reports the candidate free. With a 4-letter
// uppercase alphabet the space is ~457k codes, far above the chat capacity,
// so the loop terminates quickly in practice.
func (g *Generator) UniqueCode(taken func(string) bool) string {
	for {
		code := g.Code()
		if taken == nil || !taken(code) {
			return code
		}
	}
}

func (g *Generator) pick(alphabet string, n int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.rand.Intn(len(alphabet))])
	}
	return b.String()
}
