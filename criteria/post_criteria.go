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

package criteria

import (
	"net/url"

	"github.com/tomoncle/blog/filter"
)

// PostCriteria filters posts. Nil fields are not applied.
type PostCriteria struct {
	ID       *filter.LongFilter    `json:"id,omitempty"`
	Title    *filter.StringFilter  `json:"title,omitempty"`
	Date     *filter.InstantFilter `json:"date,omitempty"`
	BlogID   *filter.LongFilter    `json:"blogId,omitempty"`
	TagID    *filter.LongFilter    `json:"tagId,omitempty"`
	Distinct *bool                 `json:"distinct,omitempty"`
}

func (c *PostCriteria) Copy() *PostCriteria {
	if c == nil {
		return nil
	}
	return &PostCriteria{
		ID:       c.ID.Copy(),
		Title:    c.Title.Copy(),
		Date:     c.Date.Copy(),
		BlogID:   c.BlogID.Copy(),
		TagID:    c.TagID.Copy(),
		Distinct: copyBool(c.Distinct),
	}
}

func (c *PostCriteria) Equal(o *PostCriteria) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID.Equal(o.ID) &&
		c.Title.Equal(o.Title) &&
		c.Date.Equal(o.Date) &&
		c.BlogID.Equal(o.BlogID) &&
		c.TagID.Equal(o.TagID) &&
		boolEqual(c.Distinct, o.Distinct)
}

func (c *PostCriteria) String() string {
	if c == nil {
		return "PostCriteria{}"
	}
	var w fieldWriter
	w.filter("id", c.ID)
	w.filter("title", c.Title)
	w.filter("date", c.Date)
	w.filter("blogId", c.BlogID)
	w.filter("tagId", c.TagID)
	w.flag("distinct", c.Distinct)
	return w.String("PostCriteria")
}

func ParsePostCriteria(values url.Values) (*PostCriteria, error) {
	var (
		c   PostCriteria
		err error
	)
	if c.ID, err = filter.ParseLong(values, "id"); err != nil {
		return nil, err
	}
	if c.Title, err = filter.ParseString(values, "title"); err != nil {
		return nil, err
	}
	if c.Date, err = filter.ParseInstant(values, "date"); err != nil {
		return nil, err
	}
	if c.BlogID, err = filter.ParseLong(values, "blogId"); err != nil {
		return nil, err
	}
	if c.TagID, err = filter.ParseLong(values, "tagId"); err != nil {
		return nil, err
	}
	if c.Distinct, err = parseDistinct(values); err != nil {
		return nil, err
	}
	return &c, nil
}
