package invoicenum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	number := Generate("INV-")

	assert.True(t, strings.HasPrefix(number, "INV-"))

	suffix := strings.TrimPrefix(number, "INV-")
	assert.Len(t, suffix, 8)
	for _, r := range suffix {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestGenerate_EmptyPrefix(t *testing.T) {
	number := Generate("")
	assert.Len(t, number, 8)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		number := Generate("INV-")
		_, ok := seen[number]
		assert.False(t, ok, "duplicate number %s", number)
		seen[number] = struct{}{}
	}
}
