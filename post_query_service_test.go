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
	"github.com/tomoncle/blog/criteria"
	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/types"
)

type postFixture struct {
	tags                []*model.Tag
	first, second       *model.Blog
	tagged, other, bare *model.Post
	service             *PostQueryService
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	db := openDB(t)
	ctx := context.Background()
	tags := seedTags(t, db, "go", "sql", "bun")
	blogs := NewBlogService(db)
	posts := NewPostService(db)

	first, err := blogs.Save(ctx, &model.Blog{Name: "first", Handle: "first"})
	require.NoError(t, err)
	second, err := blogs.Save(ctx, &model.Blog{Name: "second", Handle: "second"})
	require.NoError(t, err)

	save := func(p *model.Post) *model.Post {
		saved, err := posts.Save(ctx, p)
		require.NoError(t, err)
		return saved
	}
	return &postFixture{
		tags:    tags,
		first:   first,
		second:  second,
		tagged:  save(&model.Post{Title: "AAAAAAAAAA", Date: day(1), BlogID: &first.ID, Tags: tags[:2]}),
		other:   save(&model.Post{Title: "second post", Date: day(5), BlogID: &second.ID, Tags: tags[1:2]}),
		bare:    save(&model.Post{Title: "bare"}),
		service: NewPostQueryService(db),
	}
}

func (f *postFixture) find(t *testing.T, c *criteria.PostCriteria) []int64 {
	t.Helper()
	posts, err := f.service.FindByCriteria(context.Background(), c)
	require.NoError(t, err)
	return ids(posts)
}

func (f *postFixture) count(t *testing.T, c *criteria.PostCriteria) int {
	t.Helper()
	n, err := f.service.CountByCriteria(context.Background(), c)
	require.NoError(t, err)
	return n
}

func TestPostCriteriaEmptyMatchesAll(t *testing.T) {
	f := newPostFixture(t)
	all := []int64{f.tagged.ID, f.other.ID, f.bare.ID}
	assert.Equal(t, all, f.find(t, nil))
	assert.Equal(t, all, f.find(t, &criteria.PostCriteria{TagID: &filter.LongFilter{}}))
	assert.Equal(t, 3, f.count(t, &criteria.PostCriteria{}))
}

func TestPostCriteriaTitleAndID(t *testing.T) {
	f := newPostFixture(t)

	title := &filter.StringFilter{}
	title.Contains = filter.Of("AAAAAAAAAA")
	assert.Equal(t, []int64{f.tagged.ID}, f.find(t, &criteria.PostCriteria{Title: title}))

	title = &filter.StringFilter{}
	title.Contains = filter.Of("BBBBBBBBBB")
	assert.Empty(t, f.find(t, &criteria.PostCriteria{Title: title}))

	title = &filter.StringFilter{}
	title.NotEquals = filter.Of("bare")
	assert.Equal(t, []int64{f.tagged.ID, f.other.ID}, f.find(t, &criteria.PostCriteria{Title: title}))

	c := &criteria.PostCriteria{ID: longEquals(f.other.ID)}
	assert.Equal(t, []int64{f.other.ID}, f.find(t, c))
	assert.Equal(t, 1, f.count(t, c))
}

func TestPostCriteriaDate(t *testing.T) {
	f := newPostFixture(t)

	window := &filter.InstantFilter{}
	window.GreaterThanOrEqual = day(1)
	window.LessThan = day(5)
	assert.Equal(t, []int64{f.tagged.ID}, f.find(t, &criteria.PostCriteria{Date: window}))

	exact := &filter.InstantFilter{}
	exact.Equals = day(5)
	assert.Equal(t, []int64{f.other.ID}, f.find(t, &criteria.PostCriteria{Date: exact}))

	missing := &filter.InstantFilter{}
	missing.Specified = filter.Of(false)
	assert.Equal(t, []int64{f.bare.ID}, f.find(t, &criteria.PostCriteria{Date: missing}))
}

func TestPostCriteriaBlogRelationship(t *testing.T) {
	f := newPostFixture(t)

	posts, err := f.service.FindByCriteria(context.Background(), &criteria.PostCriteria{BlogID: longEquals(f.second.ID)})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, f.other.ID, posts[0].ID)
	require.NotNil(t, posts[0].Blog)
	assert.Equal(t, "second", posts[0].Blog.Name)
	assert.Equal(t, []int64{f.tags[1].ID}, posts[0].TagIDs())

	notFirst := &filter.LongFilter{}
	notFirst.NotEquals = filter.Of(f.first.ID)
	assert.Equal(t, []int64{f.other.ID}, f.find(t, &criteria.PostCriteria{BlogID: notFirst}))

	orphaned := &filter.LongFilter{}
	orphaned.Specified = filter.Of(false)
	assert.Equal(t, []int64{f.bare.ID}, f.find(t, &criteria.PostCriteria{BlogID: orphaned}))
}

func TestPostCriteriaTagDistinct(t *testing.T) {
	f := newPostFixture(t)

	assert.Equal(t, []int64{f.tagged.ID, f.other.ID}, f.find(t, &criteria.PostCriteria{TagID: longEquals(f.tags[1].ID)}))

	anyTag := &filter.LongFilter{}
	anyTag.In = []int64{f.tags[0].ID, f.tags[1].ID}
	assert.Equal(t, 3, f.count(t, &criteria.PostCriteria{TagID: anyTag}))

	distinct := &criteria.PostCriteria{TagID: anyTag, Distinct: filter.Of(true)}
	assert.Equal(t, []int64{f.tagged.ID, f.other.ID}, f.find(t, distinct))
	assert.Equal(t, 2, f.count(t, distinct))

	page, err := f.service.FindPageByCriteria(context.Background(), distinct, types.NewPageRequest(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []int64{f.tagged.ID}, ids(page.Items))

	untagged := &filter.LongFilter{}
	untagged.Specified = filter.Of(false)
	assert.Equal(t, []int64{f.bare.ID}, f.find(t, &criteria.PostCriteria{TagID: untagged}))
}
