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

var (
	postBlog   = specification.Join{Table: "blog", Alias: "post_blog", Column: "id", Parent: "post.blog_id"}
	postTagRel = specification.Join{Table: "rel_post__tag", Alias: "post_tag_rel", Column: "post_id", Parent: "post.id"}
	postTag    = specification.Join{Table: "tag", Alias: "post_tag", Column: "id", Parent: "post_tag_rel.tag_id"}
)

// PostQueryService runs PostCriteria against the post table.
type PostQueryService struct {
	posts   Service[model.Post]
	builder *specification.Builder
	log     *utils.Logger
}

func NewPostQueryService(db *bun.DB, opts ...specification.Option) *PostQueryService {
	return &PostQueryService{
		posts:   NewServiceWithDB[model.Post](db, repository.WithRelations("Blog", "Tags")),
		builder: specification.NewBuilder(db.Dialect().Name(), opts...),
		log:     utils.NewLogger("PostQueryService"),
	}
}

// FindByCriteria returns every post matching c, ordered by id. A nil c
// matches all posts.
func (s *PostQueryService) FindByCriteria(ctx context.Context, c *criteria.PostCriteria) ([]*model.Post, error) {
	s.log.Debugf("find by criteria : %v", c)
	posts, err := s.posts.FindBySpec(ctx, s.createSpecification(c))
	if err != nil {
		return nil, fmt.Errorf("find posts by criteria: %w", err)
	}
	return posts, nil
}

// FindPageByCriteria returns one page of the posts matching c.
func (s *PostQueryService) FindPageByCriteria(ctx context.Context, c *criteria.PostCriteria, page *types.PageRequest) (*types.Pagination[model.Post], error) {
	s.log.Debugf("find by criteria : %v, page: %v", c, page)
	result, err := s.posts.FindPageBySpec(ctx, s.createSpecification(c), page)
	if err != nil {
		return nil, fmt.Errorf("find post page by criteria: %w", err)
	}
	return result, nil
}

// CountByCriteria returns the number of posts matching c. Without distinct,
// a post matching several tags is counted once per tag.
func (s *PostQueryService) CountByCriteria(ctx context.Context, c *criteria.PostCriteria) (int, error) {
	s.log.Debugf("count by criteria : %v", c)
	n, err := s.posts.CountBySpec(ctx, s.createSpecification(c))
	if err != nil {
		return 0, fmt.Errorf("count posts by criteria: %w", err)
	}
	return n, nil
}

func (s *PostQueryService) createSpecification(c *criteria.PostCriteria) *specification.Specification {
	spec := specification.Where()
	if c == nil {
		return spec
	}
	if c.Distinct != nil {
		spec.Distinct(*c.Distinct)
	}
	if c.ID != nil {
		spec.And(specification.Range(c.ID, specification.Column("post", "id")))
	}
	if c.Title != nil {
		spec.And(s.builder.Text(c.Title, specification.Column("post", "title")))
	}
	if c.Date != nil {
		spec.And(specification.Range(c.Date, specification.Column("post", "date")))
	}
	if c.BlogID != nil {
		spec.And(specification.Range(c.BlogID, specification.Column(postBlog.Alias, "id").Through(postBlog)))
	}
	if c.TagID != nil {
		spec.And(specification.Range(c.TagID, specification.Column(postTag.Alias, "id").Through(postTagRel, postTag)))
	}
	return spec
}
