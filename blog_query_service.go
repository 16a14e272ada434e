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
	"fmt"

	"github.com/tomoncle/blog/criteria"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/repository"
	"github.com/tomoncle/blog/specification"
	"github.com/tomoncle/blog/types"
	"github.com/tomoncle/blog/utils"
	"github.com/uptrace/bun"
)

var blogUser = specification.Join{Table: "jhi_user", Alias: "blog_user", Column: "id", Parent: "blog.user_id"}

// BlogQueryService runs BlogCriteria against the blog table.
type BlogQueryService struct {
	blogs   Service[model.Blog]
	builder *specification.Builder
	log     *utils.Logger
}

func NewBlogQueryService(db *bun.DB, opts ...specification.Option) *BlogQueryService {
	return &BlogQueryService{
		blogs:   NewServiceWithDB[model.Blog](db, repository.WithRelations("User")),
		builder: specification.NewBuilder(db.Dialect().Name(), opts...),
		log:     utils.NewLogger("BlogQueryService"),
	}
}

// FindByCriteria returns every blog matching c, ordered by id. A nil c
// matches all blogs.
func (s *BlogQueryService) FindByCriteria(ctx context.Context, c *criteria.BlogCriteria) ([]*model.Blog, error) {
	s.log.Debugf("find by criteria : %v", c)
	blogs, err := s.blogs.FindBySpec(ctx, s.createSpecification(c))
	if err != nil {
		return nil, fmt.Errorf("find blogs by criteria: %w", err)
	}
	return blogs, nil
}

// FindPageByCriteria returns one page of the blogs matching c.
func (s *BlogQueryService) FindPageByCriteria(ctx context.Context, c *criteria.BlogCriteria, page *types.PageRequest) (*types.Pagination[model.Blog], error) {
	s.log.Debugf("find by criteria : %v, page: %v", c, page)
	result, err := s.blogs.FindPageBySpec(ctx, s.createSpecification(c), page)
	if err != nil {
		return nil, fmt.Errorf("find blog page by criteria: %w", err)
	}
	return result, nil
}

// CountByCriteria returns the number of blogs matching c.
func (s *BlogQueryService) CountByCriteria(ctx context.Context, c *criteria.BlogCriteria) (int, error) {
	s.log.Debugf("count by criteria : %v", c)
	n, err := s.blogs.CountBySpec(ctx, s.createSpecification(c))
	if err != nil {
		return 0, fmt.Errorf("count blogs by criteria: %w", err)
	}
	return n, nil
}

func (s *BlogQueryService) createSpecification(c *criteria.BlogCriteria) *specification.Specification {
	spec := specification.Where()
	if c == nil {
		return spec
	}
	if c.Distinct != nil {
		spec.Distinct(*c.Distinct)
	}
	if c.ID != nil {
		spec.And(specification.Range(c.ID, specification.Column("blog", "id")))
	}
	if c.Name != nil {
		spec.And(s.builder.Text(c.Name, specification.Column("blog", "name")))
	}
	if c.Handle != nil {
		spec.And(s.builder.Text(c.Handle, specification.Column("blog", "handle")))
	}
	if c.UserID != nil {
		spec.And(specification.Range(c.UserID, specification.Column(blogUser.Alias, "id").Through(blogUser)))
	}
	return spec
}
