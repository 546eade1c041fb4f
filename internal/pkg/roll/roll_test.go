package roll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

func TestParse(t *testing.T) {
	t.Run("plain notation", func(t *testing.T) {
		expr, err := Parse("2d6")
		require.NoError(t, err)
		assert.Equal(t, 2, expr.Count)
		assert.Equal(t, 6, expr.Sides)
		assert.Equal(t, 0, expr.Modifier)
	})

	t.Run("positive modifier", func(t *testing.T) {
		expr, err := Parse("1d20+5")
		require.NoError(t, err)
		assert.Equal(t, 1, expr.Count)
		assert.Equal(t, 20, expr.Sides)
		assert.Equal(t, 5, expr.Modifier)
	})

	t.Run("negative modifier", func(t *testing.T) {
		expr, err := Parse("1d8-1")
		require.NoError(t, err)
		assert.Equal(t, -1, expr.Modifier)
	})

	t.Run("tolerates case and spacing", func(t *testing.T) {
		expr, err := Parse("  3D4+2 ")
		require.NoError(t, err)
		assert.Equal(t, 3, expr.Count)
		assert.Equal(t, 4, expr.Sides)
		assert.Equal(t, 2, expr.Modifier)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, notation := range []string{"", "d6", "2d", "2x6", "1d6+", "one d six"} {
			_, err := Parse(notation)
			require.Error(t, err, "notation %q should not parse", notation)
			assert.True(t, errors.IsInvalidArgument(err))
		}
	})

	t.Run("rejects zero dice", func(t *testing.T) {
		_, err := Parse("0d6")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestEval(t *testing.T) {
	roller := Seeded(7)

	t.Run("total stays in bounds", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			result, err := Eval("2d6+1", roller)
			require.NoError(t, err)
			assert.Len(t, result.Rolls, 2)
			assert.GreaterOrEqual(t, result.Total, 3)
			assert.LessOrEqual(t, result.Total, 13)
			assert.Equal(t, result.DiceTotal+result.Modifier, result.Total)
		}
	})

	t.Run("bad notation surfaces the parse error", func(t *testing.T) {
		_, err := Eval("banana", roller)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestSeeded(t *testing.T) {
	t.Run("same seed replays the same sequence", func(t *testing.T) {
		a := Seeded(42)
		b := Seeded(42)
		for i := 0; i < 50; i++ {
			va, err := a.Roll(20)
			require.NoError(t, err)
			vb, err := b.Roll(20)
			require.NoError(t, err)
			assert.Equal(t, va, vb)
		}
	})

	t.Run("values stay within the die", func(t *testing.T) {
		r := Seeded(1)
		for i := 0; i < 100; i++ {
			v, err := r.Roll(6)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, 6)
		}
	})

	t.Run("rejects bad sizes", func(t *testing.T) {
		r := Seeded(1)
		_, err := r.Roll(0)
		require.Error(t, err)
		_, err = r.RollN(0, 6)
		require.Error(t, err)
	})
}

func TestDie(t *testing.T) {
	r := Seeded(3)
	v, err := Die(r, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 1)
	assert.LessOrEqual(t, v, 10)
}
