package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundSentinel/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	st := model.NewEngineState()
	st.LastPassDate = "2026-03-04"
	sig := st.StateFor("022364")
	sig.ConfirmCount = 1
	sig.CooldownUntil = time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)
	sig.MarkFired("2026-03-04")

	require.NoError(t, store.Save(st))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", got.LastPassDate)
	gotSig := got.StateFor("022364")
	assert.Equal(t, 1, gotSig.ConfirmCount)
	assert.True(t, gotSig.CooldownUntil.Equal(sig.CooldownUntil))
	assert.True(t, gotSig.FiredOn("2026-03-04"))
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestFileStore_MissingFileIsColdStart(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	st, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, st.Instruments)
	assert.Empty(t, st.LastPassDate)
}

func TestFileStore_CorruptFileIsColdStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	st, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, st.Instruments)
}

func TestFileStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	require.NoError(t, NewFileStore(path).Save(model.NewEngineState()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
