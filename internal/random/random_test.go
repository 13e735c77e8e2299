package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_SameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestSource_RestoreReplays(t *testing.T) {
	src := New(7)
	src.Float64()
	state, err := src.State()
	require.NoError(t, err)

	want := []float64{src.Float64(), src.Float64(), src.Float64()}

	other := New(999)
	require.NoError(t, other.Restore(state))
	for _, w := range want {
		assert.Equal(t, w, other.Float64())
	}
}

func TestBetween(t *testing.T) {
	src := New(1)
	for i := 0; i < 200; i++ {
		v := Between(src, 3, 5)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 5)
	}
	assert.Equal(t, 4, Between(src, 4, 2))
}

func TestFixed(t *testing.T) {
	f := &Fixed{Floats: []float64{0.1, 0.9}, Ints: []int{7}}
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.Equal(t, 2, f.IntN(5))
}
