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
)

func countLinks(t *testing.T, s *PostService, postID int64) int {
	t.Helper()
	n, err := s.links.SelectBuilder().Where("post_id = ?", postID).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestPostSaveReplacesTags(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tags := seedTags(t, db, "go", "sql", "bun")
	blogs := NewBlogService(db)
	posts := NewPostService(db)

	b, err := blogs.Save(ctx, &model.Blog{Name: "tech", Handle: "tech"})
	require.NoError(t, err)

	post, err := posts.Save(ctx, &model.Post{
		Title:  "hello",
		Date:   day(1),
		BlogID: &b.ID,
		Tags:   []*model.Tag{tags[0], tags[1], tags[0]},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countLinks(t, posts, post.ID))

	found, err := posts.FindOne(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Blog)
	assert.Equal(t, "tech", found.Blog.Name)
	assert.ElementsMatch(t, []int64{tags[0].ID, tags[1].ID}, found.TagIDs())
	assert.True(t, day(1).Equal(*found.Date))

	found.Tags = []*model.Tag{tags[2]}
	_, err = posts.Save(ctx, found)
	require.NoError(t, err)
	reloaded, err := posts.FindOne(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{tags[2].ID}, reloaded.TagIDs())

	reloaded.Tags = nil
	reloaded.Title = "kept tags"
	_, err = posts.Save(ctx, reloaded)
	require.NoError(t, err)
	assert.Equal(t, 1, countLinks(t, posts, post.ID))

	reloaded.Tags = []*model.Tag{}
	_, err = posts.Save(ctx, reloaded)
	require.NoError(t, err)
	assert.Equal(t, 0, countLinks(t, posts, post.ID))
}

func TestPostPartialUpdate(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	posts := NewPostService(db)

	post, err := posts.Save(ctx, &model.Post{Title: "draft", Content: "body", Date: day(2)})
	require.NoError(t, err)

	updated, err := posts.PartialUpdate(ctx, &model.PostPatch{ID: post.ID, Title: filter.Of("final")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.True(t, day(2).Equal(*updated.Date))

	missing, err := posts.PartialUpdate(ctx, &model.PostPatch{ID: 999, Title: filter.Of("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := posts.PartialUpdate(ctx, nil)
	assert.ErrorIs(t, err, ErrNilPatch)
	assert.Nil(t, none)
}

func TestPostSaveSkipsNilTags(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tags := seedTags(t, db, "go")
	posts := NewPostService(db)

	post, err := posts.Save(ctx, &model.Post{Title: "sparse", Tags: []*model.Tag{nil, tags[0], nil}})
	require.NoError(t, err)
	assert.Equal(t, 1, countLinks(t, posts, post.ID))
}

func TestPostDeleteRemovesLinks(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tags := seedTags(t, db, "go")
	posts := NewPostService(db)

	keep, err := posts.Save(ctx, &model.Post{Title: "keep", Tags: tags})
	require.NoError(t, err)
	drop, err := posts.Save(ctx, &model.Post{Title: "drop", Tags: tags})
	require.NoError(t, err)

	before, err := posts.FindAll(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, drop.ID))
	after, err := posts.FindAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, before.Total-1, after.Total)
	assert.Equal(t, 0, countLinks(t, posts, drop.ID))
	assert.Equal(t, 1, countLinks(t, posts, keep.ID))

	gone, err := posts.FindOne(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
