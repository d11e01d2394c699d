package traceid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	var gen Generator = UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestUUIDv7GeneratorSortable(t *testing.T) {
	gen := UUIDv7Generator{}

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator("t-1", "t-2")

	assert.Equal(t, "t-1", gen.Generate())
	assert.Equal(t, "t-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
