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

	"github.com/tomoncle/blog/database"
	"github.com/tomoncle/blog/model"
	"github.com/tomoncle/blog/repository"
	"github.com/tomoncle/blog/types"
	"github.com/tomoncle/blog/utils"
	"github.com/uptrace/bun"
)

// PostService manages posts and their tag links. Reads load the blog and
// the tags.
type PostService struct {
	posts Service[model.Post]
	links Service[model.PostTag]
	log   *utils.Logger
}

func NewPostService(db *bun.DB) *PostService {
	return &PostService{
		posts: NewServiceWithDB[model.Post](db, repository.WithRelations("Blog", "Tags")),
		links: NewServiceWithDB[model.PostTag](db),
		log:   utils.NewLogger("PostService"),
	}
}

// Save inserts or replaces post like BlogService.Save. A non-nil Tags slice
// replaces the post's tag links in the same transaction; nil leaves them.
func (s *PostService) Save(ctx context.Context, post *model.Post) (*model.Post, error) {
	s.log.Debugf("Request to save Post : %v", post)
	err := s.posts.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.posts.StoreWithTx(ctx, &tx, post); err != nil {
			return err
		}
		if post.Tags == nil {
			return nil
		}
		return s.replaceTags(ctx, &tx, post.ID, post.TagIDs())
	})
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

func (s *PostService) replaceTags(ctx context.Context, tx *bun.Tx, postID int64, tagIDs []int64) error {
	if err := s.unlinkTags(ctx, tx, postID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]*model.PostTag, 0, len(tagIDs))
	seen := make(map[int64]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, &model.PostTag{PostID: postID, TagID: id})
	}
	return s.links.SaveWithTx(ctx, tx, links...)
}

func (s *PostService) unlinkTags(ctx context.Context, tx *bun.Tx, postID int64) error {
	_, err := tx.NewDelete().
		Model((*model.PostTag)(nil)).
		Where("? = ?", bun.Ident("post_id"), postID).
		Exec(ctx)
	return err
}

// PartialUpdate applies the set fields of patch to the stored post. It
// returns nil when no post has the patch id. Tag links are not touched.
func (s *PostService) PartialUpdate(ctx context.Context, patch *model.PostPatch) (*model.Post, error) {
	if patch == nil {
		return nil, fmt.Errorf("partial update post: %w", ErrNilPatch)
	}
	s.log.Debugf("Request to partially update Post : %d", patch.ID)
	var updated *model.Post
	err := s.posts.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.posts.GetWithTx(ctx, &tx, patch.ID)
		if database.IsNoRows(err) {
			return nil
		}
		if err != nil {
			return err
		}
		patch.ApplyTo(existing)
		if err := s.posts.UpdateWithTx(ctx, &tx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("partial update post %d: %w", patch.ID, err)
	}
	return updated, nil
}

// FindAll returns one page of posts.
func (s *PostService) FindAll(ctx context.Context, page *types.PageRequest) (*types.Pagination[model.Post], error) {
	s.log.Debug("Request to get all Posts")
	result, err := s.posts.Page(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return result, nil
}

// FindOne returns the post with id, or nil when there is none.
func (s *PostService) FindOne(ctx context.Context, id int64) (*model.Post, error) {
	s.log.Debugf("Request to get Post : %d", id)
	post, err := s.posts.Get(ctx, id)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return post, nil
}

// Delete removes the post with id together with its tag links. Deleting a
// missing post is not an error.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	s.log.Debugf("Request to delete Post : %d", id)
	err := s.posts.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := s.unlinkTags(ctx, &tx, id); err != nil {
			return err
		}
		return s.posts.DeleteWithTx(ctx, &tx, id)
	})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
