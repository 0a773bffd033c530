// Package idgen allocates entity identifiers: numeric max-plus-one ids and
// short prefixed codes such as PRD042 or ORD917.
package idgen

import (
	"errors"
	"fmt"
	"strconv"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	ProductPrefix = "PRD"
	OrderPrefix   = "ORD"
	CodeDigits    = 3
	MaxAttempts   = 1000
)

var ErrCodeSpaceExhausted = errors.New("no unused code left")

// NextSequence returns one more than the largest numeric id, or 1.
// Ids that are not integers are ignored.
func NextSequence(ids []string) int {
	highest := 0
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

// CodeGenerator produces prefix + N random decimal digits.
type CodeGenerator struct {
	prefix string
	digits func() string
}

func NewCodeGenerator(prefix string, digits int) (*CodeGenerator, error) {
	gen, err := nanoid.CustomASCII("0123456789", digits)
	if err != nil {
		return nil, fmt.Errorf("create %s generator: %w", prefix, err)
	}
	return &CodeGenerator{prefix: prefix, digits: gen}, nil
}

// MustCodeGenerator panics on an invalid digit count
func MustCodeGenerator(prefix string, digits int) *CodeGenerator {
	g, err := NewCodeGenerator(prefix, digits)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *CodeGenerator) Next() string {
	return g.prefix + g.digits()
}

// Unique draws codes until exists reports false, giving up after attempts.
func (g *CodeGenerator) Unique(exists func(string) bool, attempts int) (string, error) {
	for i := 0; i < attempts; i++ {
		code := g.Next()
		if !exists(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %s", ErrCodeSpaceExhausted, g.prefix)
}
