package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	want := Settings{
		DeviceAddress:     "192.168.1.42:80",
		UnitPrice:         0.30,
		DailyBudget:       5.0,
		Mode:              ModeAuto,
		AccountNumber:     "A-1001",
		NotificationEmail: "alice@example.com",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	first := Defaults()
	first.AccountNumber = "A-1001"
	require.NoError(t, store.Save(first))

	second := Defaults()
	second.UnitPrice = 0.42
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got.AccountNumber)
	assert.Equal(t, 0.42, got.UnitPrice)
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	bad := Defaults()
	bad.DailyBudget = 0
	err := store.Save(bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidConfiguration))

	bad = Defaults()
	bad.Mode = "sometimes"
	err = store.Save(bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidConfiguration))
}

func TestLoadMalformedFileIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeInvalidConfiguration))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "settings.json"))
	require.NoError(t, store.Save(Defaults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}
