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

package model

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Post struct {
	bun.BaseModel `bun:"table:post,alias:post"`

	ID      int64      `bun:"id,pk,autoincrement" json:"id"`
	Title   string     `bun:"title,notnull" json:"title"`
	Content string     `bun:"content,type:text" json:"content"`
	Date    *time.Time `bun:"date" json:"date,omitempty"`
	BlogID  *int64     `bun:"blog_id" json:"blogId,omitempty"`
	Blog    *Blog      `bun:"rel:belongs-to,join:blog_id=id" json:"blog,omitempty"`
	Tags    []*Tag     `bun:"m2m:rel_post__tag,join:Post=Tag" json:"tags,omitempty"`
}

func (p *Post) GetID() int64 { return p.ID }

func (p *Post) String() string {
	return fmt.Sprintf("Post{id=%d, title=%q, date=%v}", p.ID, p.Title, p.Date)
}

// TagIDs returns the ids of the post's tags in order, skipping nil tags.
func (p *Post) TagIDs() []int64 {
	ids := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t == nil {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids
}

type PostPatch struct {
	ID      int64      `json:"id"`
	Title   *string    `json:"title,omitempty"`
	Content *string    `json:"content,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

func (p *PostPatch) ApplyTo(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Date != nil {
		d := *p.Date
		post.Date = &d
	}
}
