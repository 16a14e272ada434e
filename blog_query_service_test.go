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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/blog/criteria"
	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/repository"
	"github.com/tomoncle/blog/specification"
	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
)

type blogFixture struct {
	db            *bun.DB
	alice, bob    *model.User
	first, second *model.Blog
	orphan        *model.Blog
	service       *BlogQueryService
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	db := openDB(t)
	ctx := context.Background()
	users := seedUsers(t, db, "alice", "bob")
	blogs := NewBlogService(db)

	save := func(b *model.Blog) *model.Blog {
		saved, err := blogs.Save(ctx, b)
		require.NoError(t, err)
		return saved
	}
	return &blogFixture{
		db:      db,
		alice:   users[0],
		bob:     users[1],
		first:   save(&model.Blog{Name: "AAAAAAAAAA", Handle: "aaa", UserID: &users[0].ID}),
		second:  save(&model.Blog{Name: "Second", Handle: "bbb", UserID: &users[1].ID}),
		orphan:  save(&model.Blog{Name: "orphan", Handle: "ccc"}),
		service: NewBlogQueryService(db),
	}
}

func (f *blogFixture) find(t *testing.T, c *criteria.BlogCriteria) []int64 {
	t.Helper()
	blogs, err := f.service.FindByCriteria(context.Background(), c)
	require.NoError(t, err)
	return ids(blogs)
}

func nameFilter(set func(*filter.StringFilter)) *criteria.BlogCriteria {
	f := &filter.StringFilter{}
	set(f)
	return &criteria.BlogCriteria{Name: f}
}

func TestBlogCriteriaEmptyMatchesAll(t *testing.T) {
	f := newBlogFixture(t)
	all := []int64{f.first.ID, f.second.ID, f.orphan.ID}

	assert.Equal(t, all, f.find(t, nil))
	assert.Equal(t, all, f.find(t, &criteria.BlogCriteria{}))
	assert.Equal(t, all, f.find(t, &criteria.BlogCriteria{Name: &filter.StringFilter{}, UserID: &filter.LongFilter{}}))

	n, err := f.service.CountByCriteria(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBlogCriteriaEquality(t *testing.T) {
	f := newBlogFixture(t)

	assert.Equal(t, []int64{f.first.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.Equals = filter.Of("AAAAAAAAAA") })))
	assert.Equal(t, []int64{f.second.ID, f.orphan.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.NotEquals = filter.Of("AAAAAAAAAA") })))
	assert.Equal(t, []int64{f.first.ID, f.orphan.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.In = []string{"AAAAAAAAAA", "orphan"} })))
	assert.Equal(t, []int64{f.second.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.NotIn = []string{"AAAAAAAAAA", "orphan"} })))
	assert.Empty(t, f.find(t, nameFilter(func(s *filter.StringFilter) { s.In = []string{} })))

	// equals wins over in
	assert.Equal(t, []int64{f.second.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) {
		s.Equals = filter.Of("Second")
		s.In = []string{"orphan"}
	})))
}

func TestBlogCriteriaByID(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	for _, b := range []*model.Blog{f.first, f.second, f.orphan} {
		c := &criteria.BlogCriteria{ID: longEquals(b.ID)}
		assert.Equal(t, []int64{b.ID}, f.find(t, c))
		n, err := f.service.CountByCriteria(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	between := &filter.LongFilter{}
	between.GreaterThan = filter.Of(f.first.ID)
	between.LessThanOrEqual = filter.Of(f.orphan.ID)
	assert.Equal(t, []int64{f.second.ID, f.orphan.ID}, f.find(t, &criteria.BlogCriteria{ID: between}))
}

func TestBlogCriteriaContains(t *testing.T) {
	f := newBlogFixture(t)

	assert.Equal(t, []int64{f.first.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.Contains = filter.Of("AAAAAAAAAA") })))
	assert.Empty(t, f.find(t, nameFilter(func(s *filter.StringFilter) { s.Contains = filter.Of("BBBBBBBBBB") })))
	assert.Empty(t, f.find(t, nameFilter(func(s *filter.StringFilter) { s.Contains = filter.Of("aaaa") })))
	assert.Equal(t, []int64{f.second.ID, f.orphan.ID}, f.find(t, nameFilter(func(s *filter.StringFilter) { s.DoesNotContain = filter.Of("AAA") })))

	folded := NewBlogQueryService(f.db, specification.WithFoldCase())
	blogs, err := folded.FindByCriteria(context.Background(), nameFilter(func(s *filter.StringFilter) { s.Contains = filter.Of("aaaa") }))
	require.NoError(t, err)
	assert.Equal(t, []int64{f.first.ID}, ids(blogs))
}

func TestBlogCriteriaUserRelationship(t *testing.T) {
	f := newBlogFixture(t)

	blogs, err := f.service.FindByCriteria(context.Background(), &criteria.BlogCriteria{UserID: longEquals(f.alice.ID)})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, f.first.ID, blogs[0].ID)
	require.NotNil(t, blogs[0].User)
	assert.Equal(t, "alice", blogs[0].User.Login)

	notAlice := &filter.LongFilter{}
	notAlice.NotEquals = filter.Of(f.alice.ID)
	assert.Equal(t, []int64{f.second.ID}, f.find(t, &criteria.BlogCriteria{UserID: notAlice}))

	specified := &filter.LongFilter{}
	specified.Specified = filter.Of(true)
	assert.Equal(t, []int64{f.first.ID, f.second.ID}, f.find(t, &criteria.BlogCriteria{UserID: specified}))

	unspecified := &filter.LongFilter{}
	unspecified.Specified = filter.Of(false)
	assert.Equal(t, []int64{f.orphan.ID}, f.find(t, &criteria.BlogCriteria{UserID: unspecified}))

	assert.Empty(t, f.find(t, &criteria.BlogCriteria{UserID: longEquals(f.bob.ID + 100)}))
}

func TestBlogCriteriaConjunctionAndPaging(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	handle := &filter.StringFilter{}
	handle.In = []string{"aaa", "bbb"}
	specified := &filter.LongFilter{}
	specified.Specified = filter.Of(true)
	c := &criteria.BlogCriteria{Handle: handle, UserID: specified, Distinct: filter.Of(true)}
	c.Name = &filter.StringFilter{}
	c.Name.DoesNotContain = filter.Of("Sec")
	assert.Equal(t, []int64{f.first.ID}, f.find(t, c))

	page, err := f.service.FindPageByCriteria(ctx, nil, types.NewPageRequest(1, 2, types.Order{Column: "name", Desc: true}))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []int64{f.orphan.ID, f.second.ID}, ids(page.Items))

	page, err = f.service.FindPageByCriteria(ctx, nil, types.NewPageRequest(2, 2, types.Order{Column: "name", Desc: true}))
	require.NoError(t, err)
	assert.Equal(t, []int64{f.first.ID}, ids(page.Items))

	_, err = f.service.FindPageByCriteria(ctx, nil, types.NewPageRequest(1, 2, types.Order{Column: "nope"}))
	assert.True(t, errors.Is(err, repository.ErrUnknownColumn))
}
