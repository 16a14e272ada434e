/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSQL(t *testing.T) {
	fk := ForeignKeyConstraint{Table: "post", Column: "blog_id", ReferenceTable: "blog", ReferenceColumn: "id", OnDelete: "SET NULL"}
	assert.Equal(t, "fk_post_blog_id", fk.GenerateConstraintName())
	assert.Equal(t, "ALTER TABLE post ADD CONSTRAINT fk_post_blog_id FOREIGN KEY (blog_id) REFERENCES blog(id) ON DELETE SET NULL", fk.GenerateSQL())

	fk.ConstraintName = "post_blog"
	fk.OnUpdate = "CASCADE"
	assert.Contains(t, fk.GenerateSQL(), "CONSTRAINT post_blog FOREIGN KEY")
	assert.Contains(t, fk.GenerateSQL(), "ON UPDATE CASCADE")
}

func TestValidateConstraints(t *testing.T) {
	fkm := &ForeignKeyManager{logger: GetLogger(), constraints: []ForeignKeyConstraint{
		{Table: "post", Column: "blog_id", ReferenceTable: "blog", ReferenceColumn: "id"},
		{Table: "post", Column: "blog_id", ReferenceTable: "blog"},
		{Table: "post", Column: "tag_id", ReferenceTable: "tag", ReferenceColumn: "id", OnDelete: "EXPLODE"},
	}}
	assert.Len(t, fkm.ValidateConstraints(), 2)
	assert.Len(t, fkm.GetConstraintsByTable("POST"), 3)
	assert.Empty(t, fkm.GetConstraintsByTable("blog"))
}

func TestForeignKeyConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "foreign_keys.yaml")

	source := &ConfigurableForeignKeyManager{ForeignKeyManager: &ForeignKeyManager{logger: GetLogger(), constraints: []ForeignKeyConstraint{
		{Table: "blog", Column: "user_id", ReferenceTable: "jhi_user", ReferenceColumn: "id", OnDelete: "SET NULL"},
		{Table: "rel_post__tag", Column: "post_id", ReferenceTable: "post", ReferenceColumn: "id", OnDelete: "CASCADE"},
	}}}
	require.NoError(t, source.ExportToConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reference_table: jhi_user")
	assert.Contains(t, string(data), "description: blog.user_id -> jhi_user.id")

	loaded := NewConfigurableForeignKeyManager(nil, path)
	assert.Equal(t, source.ListAllConstraints(), loaded.ListAllConstraints())
	assert.Equal(t, path, loaded.GetConfigPath())

	require.NoError(t, os.WriteFile(path, []byte("foreign_keys:\n  - table: post\n    column: blog_id\n    reference_table: blog\n    reference_column: id\n"), 0644))
	require.NoError(t, loaded.ReloadConfig())
	require.Len(t, loaded.ListAllConstraints(), 1)
	assert.Equal(t, "post", loaded.ListAllConstraints()[0].Table)
}

func TestForeignKeyFallsBackToRegistered(t *testing.T) {
	loaded := NewConfigurableForeignKeyManager(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, getForeignKeyConstraints(), loaded.ListAllConstraints())
	assert.Error(t, loaded.ReloadConfig())
}
