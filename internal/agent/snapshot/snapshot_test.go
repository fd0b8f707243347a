// SPDX-License-Identifier: Apache-2.0

package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonworks/mason/internal/agent/snapshot"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newNextProject(t *testing.T) string {
	root := t.TempDir()

	writeProjectFile(t, root, "package.json", `{
  "dependencies": {"next": "14.0.0", "react": "18.0.0", "drizzle-orm": "0.30.0", "pg": "8.0.0"},
  "devDependencies": {"typescript": "5.0.0"}
}`)
	writeProjectFile(t, root, "tsconfig.json", "{}")
	writeProjectFile(t, root, "schemas/users.ts",
		"export const users = pgTable(\"users\", {});\nexport const sessions = pgTable(\"sessions\", {});\n")
	writeProjectFile(t, root, "schemas/index.ts", "export * from \"./users\";\n")
	writeProjectFile(t, root, "api/users/route.ts", "export async function GET() {}\n")
	writeProjectFile(t, root, "components/user-list.tsx", "export default function UserList() {}\n")

	return root
}

func TestBuildSnapshot(t *testing.T) {
	root := newNextProject(t)

	snap, err := snapshot.Build(root, snapshot.Options{})
	require.NoError(t, err)

	assert.Equal(t, "next", snap.Framework)
	assert.True(t, snap.HasTypedSource)
	assert.Equal(t, "14.0.0", snap.Dependencies["next"])
	assert.Equal(t, "5.0.0", snap.Dependencies["typescript"])

	require.NotNil(t, snap.Database)
	assert.Equal(t, "postgresql", snap.Database.Provider)
	assert.Contains(t, snap.Database.SchemaFiles, "schemas/users.ts")

	// index.ts is the aggregate, not a schema unit.
	require.Len(t, snap.ExistingSchemas, 1)
	assert.Equal(t, "users", snap.ExistingSchemas[0].Name)
	assert.Equal(t, []string{"users", "sessions"}, snap.ExistingSchemas[0].Tables)

	assert.Equal(t, []string{"api/users/route.ts"}, snap.EndpointPaths)
	assert.Equal(t, []string{"components/user-list.tsx"}, snap.UIModulePaths)
}

func TestBuildSnapshotEmptyProject(t *testing.T) {
	snap, err := snapshot.Build(t.TempDir(), snapshot.Options{})
	require.NoError(t, err)

	assert.Equal(t, "unknown", snap.Framework)
	assert.False(t, snap.HasTypedSource)
	assert.Nil(t, snap.Database)
	assert.Empty(t, snap.ExistingSchemas)
	assert.Empty(t, snap.EndpointPaths)
}

func TestBuildSnapshotMissingRoot(t *testing.T) {
	_, err := snapshot.Build(filepath.Join(t.TempDir(), "nope"), snapshot.Options{})
	assert.Error(t, err)
}

func TestBuildSnapshotHonorsGitignore(t *testing.T) {
	root := newNextProject(t)
	writeProjectFile(t, root, ".gitignore", "coverage/\n*.log\n")
	writeProjectFile(t, root, "coverage/lcov.info", "data")
	writeProjectFile(t, root, "debug.log", "noise")
	writeProjectFile(t, root, "node_modules/next/index.js", "module")

	snap, err := snapshot.Build(root, snapshot.Options{})
	require.NoError(t, err)

	for dir, files := range snap.Structure {
		assert.NotContains(t, dir, "node_modules")
		assert.NotContains(t, dir, "coverage")
		for _, f := range files {
			assert.NotEqual(t, "debug.log", f)
		}
	}
}

func TestBuildSnapshotCustomDirs(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "db/schemas/orders.ts", "export const orders = pgTable(\"orders\", {});\n")
	writeProjectFile(t, root, "app/api/orders/route.ts", "export async function GET() {}\n")

	snap, err := snapshot.Build(root, snapshot.Options{
		SchemasDir: "db/schemas",
		APIDir:     "app/api",
	})
	require.NoError(t, err)

	require.Len(t, snap.ExistingSchemas, 1)
	assert.Equal(t, "db/schemas/orders.ts", snap.ExistingSchemas[0].Path)
	assert.Equal(t, []string{"app/api/orders/route.ts"}, snap.EndpointPaths)
}
