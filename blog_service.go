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
	"fmt"

	"github.com/tomoncle/blog/database"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/repository"
	"github.com/tomoncle/blog/types"
	"github.com/tomoncle/blog/utils"
	"github.com/uptrace/bun"
)

// ErrNilPatch is returned by PartialUpdate when no patch is given.
var ErrNilPatch = errors.New("nil patch")

// BlogService manages blogs. Reads load the owning user.
type BlogService struct {
	blogs Service[model.Blog]
	log   *utils.Logger
}

func NewBlogService(db *bun.DB) *BlogService {
	return &BlogService{
		blogs: NewServiceWithDB[model.Blog](db, repository.WithRelations("User")),
		log:   utils.NewLogger("BlogService"),
	}
}

// Save inserts blog when its id is zero and replaces the stored blog with
// the same id otherwise.
func (s *BlogService) Save(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	s.log.Debugf("Request to save Blog : %v", blog)
	if err := s.blogs.Store(ctx, blog); err != nil {
		return nil, fmt.Errorf("save blog: %w", err)
	}
	return blog, nil
}

// PartialUpdate applies the set fields of patch to the stored blog. It
// returns nil when no blog has the patch id.
func (s *BlogService) PartialUpdate(ctx context.Context, patch *model.BlogPatch) (*model.Blog, error) {
	if patch == nil {
		return nil, fmt.Errorf("partial update blog: %w", ErrNilPatch)
	}
	s.log.Debugf("Request to partially update Blog : %d", patch.ID)
	var updated *model.Blog
	err := s.blogs.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.blogs.GetWithTx(ctx, &tx, patch.ID)
		if database.IsNoRows(err) {
			return nil
		}
		if err != nil {
			return err
		}
		patch.ApplyTo(existing)
		if err := s.blogs.UpdateWithTx(ctx, &tx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("partial update blog %d: %w", patch.ID, err)
	}
	return updated, nil
}

// FindAll returns one page of blogs.
func (s *BlogService) FindAll(ctx context.Context, page *types.PageRequest) (*types.Pagination[model.Blog], error) {
	s.log.Debug("Request to get all Blogs")
	result, err := s.blogs.Page(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	return result, nil
}

// FindOne returns the blog with id, or nil when there is none.
func (s *BlogService) FindOne(ctx context.Context, id int64) (*model.Blog, error) {
	s.log.Debugf("Request to get Blog : %d", id)
	blog, err := s.blogs.Get(ctx, id)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog %d: %w", id, err)
	}
	return blog, nil
}

// Delete removes the blog with id. Deleting a missing blog is not an error.
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	s.log.Debugf("Request to delete Blog : %d", id)
	if err := s.blogs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog %d: %w", id, err)
	}
	return nil
}
