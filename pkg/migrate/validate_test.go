package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "001_short_version.sql")
	require.NoError(t, os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err := ValidateDir(dir)
	assert.ErrorContains(t, err, "invalid migration filename")
}

func TestValidateDirRejectsMissingDownMarker(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "20250110090000_missing_down.sql")
	require.NoError(t, os.WriteFile(name, []byte("-- +goose Up\nSELECT 1;\n"), 0o644))

	err := ValidateDir(dir)
	assert.ErrorContains(t, err, "+goose Down")
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Shipment Number!")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "_add_shipment_number.sql")

	require.NoError(t, ValidateDir(dir))
}
