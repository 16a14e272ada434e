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
	"strings"

	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Builder translates text filters, whose substring operators depend on the
// SQL dialect.
type Builder struct {
	dialect  dialect.Name
	foldCase bool
}

type Option func(*Builder)

// WithFoldCase makes contains and doesNotContain ignore letter case.
func WithFoldCase() Option {
	return func(b *Builder) {
		b.foldCase = true
	}
}

// NewBuilder returns a builder for the given dialect. Substring matching is
// case-sensitive unless WithFoldCase is passed.
func NewBuilder(name dialect.Name, opts ...Option) *Builder {
	b := &Builder{dialect: name}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Dialect() dialect.Name { return b.dialect }

// Text translates f against field. After equals and in, contains takes
// precedence over doesNotContain; otherwise the remaining operators are
// AND-ed like Range does.
func (b *Builder) Text(f *filter.StringFilter, field Field) Fragment {
	if f.IsEmpty() {
		return Fragment{}
	}
	col := field.ident()
	if exclusive := exclusiveOf(&f.Filter, col); exclusive != nil {
		return fragmentOf(field, exclusive)
	}
	switch {
	case f.Contains != nil:
		return fragmentOf(field, b.substring(col, *f.Contains, false))
	case f.DoesNotContain != nil:
		return fragmentOf(field, b.substring(col, *f.DoesNotContain, true))
	}
	return fragmentOf(field, append(equalityParts(&f.Filter, col), rangeParts(&f.RangeFilter, col)...)...)
}

func (b *Builder) substring(col bun.Ident, value string, negate bool) *types.QueryFilter {
	cmp := "> 0"
	if negate {
		cmp = "= 0"
	}
	switch b.dialect {
	case dialect.SQLite:
		if b.foldCase {
			return types.NewQueryFilter("instr(lower(?), lower(?)) "+cmp, col, value)
		}
		return types.NewQueryFilter("instr(?, ?) "+cmp, col, value)
	case dialect.PG:
		if b.foldCase {
			return types.NewQueryFilter("strpos(lower(?), lower(?)) "+cmp, col, value)
		}
		return types.NewQueryFilter("strpos(?, ?) "+cmp, col, value)
	case dialect.MySQL:
		if b.foldCase {
			return types.NewQueryFilter("INSTR(LOWER(?), LOWER(?)) "+cmp, col, value)
		}
		return types.NewQueryFilter("INSTR(CAST(? AS BINARY), CAST(? AS BINARY)) "+cmp, col, value)
	}
	op := "LIKE"
	if negate {
		op = "NOT LIKE"
	}
	pattern := "%" + escapeLike(value) + "%"
	if b.foldCase {
		return types.NewQueryFilter("lower(?) "+op+" lower(?) ESCAPE '!'", col, pattern)
	}
	return types.NewQueryFilter("? "+op+" ? ESCAPE '!'", col, pattern)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
