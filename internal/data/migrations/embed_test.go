package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSListsOrderedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(FS(), ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_movies.sql",
		"00003_create_reviews.sql",
		"00004_create_sessions.sql",
	}, names)

	for _, name := range names {
		body, err := fs.ReadFile(FS(), name)
		require.NoError(t, err)
		require.True(t, strings.Contains(string(body), "-- +goose Up"), name)
		require.True(t, strings.Contains(string(body), "-- +goose Down"), name)
	}
}
