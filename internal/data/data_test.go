package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/adnd-engine/internal/entities"
	"github.com/KirkDiggler/adnd-engine/internal/errors"
)

func TestWeapons(t *testing.T) {
	weapons, err := Weapons()
	require.NoError(t, err)
	require.NotEmpty(t, weapons)

	for _, w := range weapons {
		assert.NotEmpty(t, w.ID, "weapon %q", w.Name)
		assert.NotEmpty(t, w.Name, "weapon %q", w.ID)
		assert.NotEmpty(t, w.Damage, "weapon %q", w.ID)
	}
}

func TestWeaponByID(t *testing.T) {
	t.Run("finds the lance", func(t *testing.T) {
		w, err := WeaponByID("lance")
		require.NoError(t, err)
		assert.Equal(t, "Heavy Lance", w.Name)
		assert.Greater(t, w.Speed, 0)
	})

	t.Run("two-handed weapons are flagged", func(t *testing.T) {
		w, err := WeaponByID("two-handed-sword")
		require.NoError(t, err)
		assert.True(t, w.TwoHanded)
		assert.Equal(t, entities.SizeLarge, w.Size)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := WeaponByID("chair-leg")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("callers get their own copy", func(t *testing.T) {
		w, err := WeaponByID("dagger")
		require.NoError(t, err)
		w.Name = "Bent Dagger"

		again, err := WeaponByID("dagger")
		require.NoError(t, err)
		assert.Equal(t, "Dagger", again.Name)
	})
}
