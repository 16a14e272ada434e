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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/types"
)

func TestBlogSaveAssignsIDAndReplaces(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice")
	blogs := NewBlogService(db)

	saved, err := blogs.Save(ctx, &model.Blog{Name: "first", Handle: "h1", UserID: &users[0].ID})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	_, err = blogs.Save(ctx, &model.Blog{ID: saved.ID, Name: "renamed", Handle: "h2"})
	require.NoError(t, err)

	found, err := blogs.FindOne(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "renamed", found.Name)
	assert.Equal(t, "h2", found.Handle)
	assert.Nil(t, found.UserID)

	_, err = blogs.Save(ctx, &model.Blog{ID: 77, Name: "explicit", Handle: "h3", UserID: &users[0].ID})
	require.NoError(t, err)
	found, err = blogs.FindOne(ctx, 77)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.User)
	assert.Equal(t, "alice", found.User.Login)
}

func TestBlogPartialUpdateKeepsAbsentFields(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	blogs := NewBlogService(db)

	saved, err := blogs.Save(ctx, &model.Blog{Name: "A", Handle: "H"})
	require.NoError(t, err)

	updated, err := blogs.PartialUpdate(ctx, &model.BlogPatch{ID: saved.ID, Name: filter.Of("B")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, "H", updated.Handle)

	stored, err := blogs.FindOne(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.Name)
	assert.Equal(t, "H", stored.Handle)

	missing, err := blogs.PartialUpdate(ctx, &model.BlogPatch{ID: saved.ID + 100, Name: filter.Of("C")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := blogs.PartialUpdate(ctx, nil)
	assert.ErrorIs(t, err, ErrNilPatch)
	assert.Nil(t, none)
}

func TestBlogDeleteAndFindAll(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	blogs := NewBlogService(db)

	for _, name := range []string{"one", "two", "three"} {
		_, err := blogs.Save(ctx, &model.Blog{Name: name, Handle: name})
		require.NoError(t, err)
	}
	page, err := blogs.FindAll(ctx, types.NewPageRequest(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 2)
	victim := page.Items[0].ID

	require.NoError(t, blogs.Delete(ctx, victim))
	require.NoError(t, blogs.Delete(ctx, victim))

	page, err = blogs.FindAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	gone, err := blogs.FindOne(ctx, victim)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = blogs.FindAll(ctx, types.NewPageRequest(1, 10, types.Order{Column: "missing"}))
	assert.Error(t, err)
}
