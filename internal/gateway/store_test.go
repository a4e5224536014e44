package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan09032004/planwise/internal/checklist"
)

func TestOverrideStoreRoundTrip(t *testing.T) {
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)

	tasks := []checklist.Task{
		{ID: "text_task_0", Title: "One", Completed: true},
		{ID: "text_task_1", Title: "Two"},
	}
	require.NoError(t, store.Save(42, tasks))

	overrides := store.Load(42)
	require.Len(t, overrides, 2)
	assert.Equal(t, checklist.ID("text_task_0"), overrides[0].ID)
	assert.True(t, overrides[0].Completed)
	assert.False(t, overrides[1].Completed)
}

func TestOverrideStoreMissingReadsAsAbsent(t *testing.T) {
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, store.Load(999))
}

func TestOverrideStoreCorruptReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewOverrideStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "checklist_5.json"), []byte("{not json"), 0644))
	assert.Nil(t, store.Load(5))
}

func TestOverrideStoreClear(t *testing.T) {
	store, err := NewOverrideStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(1, []checklist.Task{{ID: "a", Completed: true}}))
	require.NoError(t, store.Clear(1))
	assert.Nil(t, store.Load(1))

	// Clearing an already-absent project is not an error.
	require.NoError(t, store.Clear(1))
}
