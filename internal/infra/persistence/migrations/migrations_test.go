package migrations

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	source, err := iofs.New(files, "sql")
	require.NoError(t, err)
	defer source.Close()

	version, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	up, _, err := source.ReadUp(version)
	require.NoError(t, err)
	upSQL, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(upSQL), "CONSTRAINT users_email_key UNIQUE (email)")
	assert.Contains(t, string(upSQL), "REFERENCES users (id) ON DELETE CASCADE")
	assert.Contains(t, string(upSQL), "DECIMAL(10, 2)")

	down, _, err := source.ReadDown(version)
	require.NoError(t, err)
	downSQL, err := io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(downSQL), "DROP TABLE IF EXISTS products")
}
