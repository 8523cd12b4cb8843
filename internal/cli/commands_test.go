package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkarpov/papersync/internal/models"
)

func TestFormatDocument(t *testing.T) {
	now := time.Now()

	plain := &models.Document{ID: "id1", Name: "Notes", CreatedAt: now, UpdatedAt: now, SyncState: models.SyncStateSynced}
	require.Equal(t, "  id1  Notes", formatDocument(plain))

	fav := &models.Document{ID: "id2", Name: "Starred", IsFavorite: true, SyncState: models.SyncStateSynced}
	require.Equal(t, "* id2  Starred", formatDocument(fav))

	pending := &models.Document{ID: "id3", Name: "Draft", SyncState: models.SyncStateNeedsCreate}
	require.Equal(t, "  id3  Draft [pending]", formatDocument(pending))
}
