package idgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want int
	}{
		{"empty", nil, 1},
		{"sequential", []string{"1", "2", "3"}, 4},
		{"gaps", []string{"1", "7", "3"}, 8},
		{"after delete of max keeps max+1 of remaining", []string{"1", "2"}, 3},
		{"ignores non numeric", []string{"PRD001", "2"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(tt.ids))
		})
	}
}

func TestCodeGenerator_Next(t *testing.T) {
	g, err := NewCodeGenerator(ProductPrefix, CodeDigits)
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^PRD[0-9]{3}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, g.Next())
	}
}

func TestCodeGenerator_Unique_SkipsTaken(t *testing.T) {
	g := MustCodeGenerator(OrderPrefix, 1)
	taken := map[string]bool{}
	for _, d := range "012345678" {
		taken["ORD"+string(d)] = true
	}

	code, err := g.Unique(func(c string) bool { return taken[c] }, MaxAttempts)

	require.NoError(t, err)
	assert.Equal(t, "ORD9", code)
}

func TestCodeGenerator_Unique_Exhausted(t *testing.T) {
	g := MustCodeGenerator(OrderPrefix, CodeDigits)

	_, err := g.Unique(func(string) bool { return true }, 5)

	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}
