package migrate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := migrations.ReadFile(dir + "/" + name)
		require.NoError(t, err)
		text := string(body)
		assert.Contains(t, text, "-- +goose Up", name)
		assert.Contains(t, text, "-- +goose Down", name)
	}
}

func TestInitialSchemaCarriesCommitGuards(t *testing.T) {
	body, err := migrations.ReadFile(dir + "/00001_init.sql")
	require.NoError(t, err)
	text := string(body)
	for _, want := range []string{
		"user_id     TEXT NOT NULL UNIQUE",
		"CHECK (balance >= 0)",
		"version     BIGINT",
		"seq          BIGSERIAL",
	} {
		assert.True(t, strings.Contains(text, want), "missing %q", want)
	}
}

func TestRunRequiresDB(t *testing.T) {
	require.Error(t, Run(context.Background(), nil, "up"))
}
