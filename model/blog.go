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

	"github.com/uptrace/bun"
)

// Blog is owned by at most one user.
type Blog struct {
	bun.BaseModel `bun:"table:blog,alias:blog"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Handle string `bun:"handle,notnull" json:"handle"`
	UserID *int64 `bun:"user_id" json:"userId,omitempty"`
	User   *User  `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

func (b *Blog) GetID() int64 { return b.ID }

func (b *Blog) String() string {
	return fmt.Sprintf("Blog{id=%d, name=%q, handle=%q}", b.ID, b.Name, b.Handle)
}

// BlogPatch carries a partial update; nil fields leave the stored value alone.
type BlogPatch struct {
	ID     int64   `json:"id"`
	Name   *string `json:"name,omitempty"`
	Handle *string `json:"handle,omitempty"`
}

// ApplyTo copies the set fields of p onto b.
func (p *BlogPatch) ApplyTo(b *Blog) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Handle != nil {
		b.Handle = *p.Handle
	}
}
