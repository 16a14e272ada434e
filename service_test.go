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

package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/blog/database"
	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
)

func openDB(t *testing.T) *bun.DB {
	t.Helper()
	factory, err := database.OpenDatabase(context.Background(), database.MemoryConfig(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory.GetDB()
}

func seedUsers(t *testing.T, db *bun.DB, logins ...string) []*model.User {
	t.Helper()
	users := make([]*model.User, len(logins))
	for i, login := range logins {
		users[i] = &model.User{Login: login}
	}
	_, err := db.NewInsert().Model(&users).Exec(context.Background())
	require.NoError(t, err)
	return users
}

func seedTags(t *testing.T, db *bun.DB, names ...string) []*model.Tag {
	t.Helper()
	tags := make([]*model.Tag, len(names))
	for i, name := range names {
		tags[i] = &model.Tag{Name: name}
	}
	_, err := db.NewInsert().Model(&tags).Exec(context.Background())
	require.NoError(t, err)
	return tags
}

func day(d int) *time.Time {
	t := time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func longEquals(v int64) *filter.LongFilter {
	f := &filter.LongFilter{}
	f.Equals = filter.Of(v)
	return f
}

func ids[T interface{ GetID() int64 }](items []T) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.GetID()
	}
	return out
}

func TestServiceCrud(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tags := NewServiceWithDB[model.Tag](db)

	require.NoError(t, tags.Save(ctx, &model.Tag{Name: "go"}, &model.Tag{Name: "sql"}))
	all, err := tags.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "go", all[0].Name)

	got, err := tags.Get(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "sql", got.Name)

	got.Name = "postgres"
	require.NoError(t, tags.Update(ctx, got))
	listed, err := tags.List(ctx, types.NewQueryFilter("name = ?", "postgres"))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, tags.SaveOrUpdate(ctx, []string{"name"}, []string{"id"}, &model.Tag{ID: all[0].ID, Name: "golang"}))
	queried, err := tags.Query(ctx, "name LIKE ?", "go%")
	require.NoError(t, err)
	require.Len(t, queried, 1)
	assert.Equal(t, "golang", queried[0].Name)

	page, err := tags.Page(ctx, types.NewPageRequest(1, 1, types.Order{Column: "name"}))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "golang", page.Items[0].Name)

	require.NoError(t, tags.Delete(ctx, all[0].ID))
	n, err := tags.SelectBuilder().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestServiceWithTxRollsBack(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tags := NewServiceWithDB[model.Tag](db)

	err := tags.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tags.SaveWithTx(ctx, &tx, &model.Tag{Name: "draft"}); err != nil {
			return err
		}
		n, err := tx.NewSelect().Model((*model.Tag)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	all, err := tags.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceUsesGlobalDB(t *testing.T) {
	_, err := database.InitDatabaseWithOptions(database.MemoryConfig(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })

	tags := NewService[model.Tag]()
	require.NoError(t, tags.Store(context.Background(), &model.Tag{Name: "global"}))
	all, err := tags.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "global", all[0].Name)
}
