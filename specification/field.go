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

package specification

import (
	"github.com/uptrace/bun"
)

// Join is a LEFT JOIN of Table under Alias, matching Alias.Column against the
// already qualified Parent column.
type Join struct {
	Table  string
	Alias  string
	Column string
	Parent string
}

func (j Join) apply(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Join("LEFT JOIN ? AS ? ON ? = ?",
		bun.Ident(j.Table), bun.Ident(j.Alias),
		bun.Ident(j.Alias+"."+j.Column), bun.Ident(j.Parent))
}

// Field is a qualified column together with the joins needed to reach it.
type Field struct {
	Column string
	Joins  []Join
}

// Column returns the field alias.name of the queried table itself.
func Column(alias, name string) Field {
	return Field{Column: alias + "." + name}
}

// Through returns a copy of f that is reached via the given joins.
func (f Field) Through(joins ...Join) Field {
	all := make([]Join, 0, len(f.Joins)+len(joins))
	all = append(all, f.Joins...)
	all = append(all, joins...)
	return Field{Column: f.Column, Joins: all}
}

func (f Field) ident() bun.Ident {
	return bun.Ident(f.Column)
}
