package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/storage"
)

func TestDarkMode_DefaultsOff(t *testing.T) {
	on, err := DarkMode(storage.NewMemoryStore())
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDarkMode_ToggleRoundTrip(t *testing.T) {
	s := storage.NewMemoryStore()

	on, err := ToggleDarkMode(s)
	require.NoError(t, err)
	assert.True(t, on)

	raw, ok, err := s.Get(storage.KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", raw)

	on, err = ToggleDarkMode(s)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDarkMode_GarbageMeansOff(t *testing.T) {
	s := storage.NewMemoryStore()
	require.NoError(t, s.Set(storage.KeyDarkMode, "maybe"))
	on, err := DarkMode(s)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestDarkMode_PersistsAcrossFileStores(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.Open(storage.BackendFile, dir)
	require.NoError(t, err)
	require.NoError(t, SetDarkMode(s, true))

	s2, err := storage.Open(storage.BackendFile, dir)
	require.NoError(t, err)
	on, err := DarkMode(s2)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "dark", ThemeName(on))
}
