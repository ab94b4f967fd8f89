// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/database"
)

// NewDB returns a migrated SQLite database living in the test's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := database.Connect(filepath.Join(t.TempDir(), "test.sqlite"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(conn) })

	return conn
}
