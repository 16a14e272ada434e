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

// BlogCriteria filters blogs. Nil fields are not applied.
type BlogCriteria struct {
	ID       *filter.LongFilter   `json:"id,omitempty"`
	Name     *filter.StringFilter `json:"name,omitempty"`
	Handle   *filter.StringFilter `json:"handle,omitempty"`
	UserID   *filter.LongFilter   `json:"userId,omitempty"`
	Distinct *bool                `json:"distinct,omitempty"`
}

// Copy returns a deep copy of c.
func (c *BlogCriteria) Copy() *BlogCriteria {
	if c == nil {
		return nil
	}
	return &BlogCriteria{
		ID:       c.ID.Copy(),
		Name:     c.Name.Copy(),
		Handle:   c.Handle.Copy(),
		UserID:   c.UserID.Copy(),
		Distinct: copyBool(c.Distinct),
	}
}

func (c *BlogCriteria) Equal(o *BlogCriteria) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID.Equal(o.ID) &&
		c.Name.Equal(o.Name) &&
		c.Handle.Equal(o.Handle) &&
		c.UserID.Equal(o.UserID) &&
		boolEqual(c.Distinct, o.Distinct)
}

func (c *BlogCriteria) String() string {
	if c == nil {
		return "BlogCriteria{}"
	}
	var w fieldWriter
	w.filter("id", c.ID)
	w.filter("name", c.Name)
	w.filter("handle", c.Handle)
	w.filter("userId", c.UserID)
	w.flag("distinct", c.Distinct)
	return w.String("BlogCriteria")
}

// ParseBlogCriteria reads blog filters from query parameters.
func ParseBlogCriteria(values url.Values) (*BlogCriteria, error) {
	var (
		c   BlogCriteria
		err error
	)
	if c.ID, err = filter.ParseLong(values, "id"); err != nil {
		return nil, err
	}
	if c.Name, err = filter.ParseString(values, "name"); err != nil {
		return nil, err
	}
	if c.Handle, err = filter.ParseString(values, "handle"); err != nil {
		return nil, err
	}
	if c.UserID, err = filter.ParseLong(values, "userId"); err != nil {
		return nil, err
	}
	if c.Distinct, err = parseDistinct(values); err != nil {
		return nil, err
	}
	return &c, nil
}
