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
	"github.com/tomoncle/blog/filter"
	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
)

// Fragment is the translation of one field filter: a single predicate and
// the joins it depends on. The zero Fragment matches everything.
type Fragment struct {
	Joins     []Join
	Predicate *types.QueryFilter
}

func (f Fragment) IsEmpty() bool {
	return f.Predicate.IsEmpty()
}

func fragmentOf(field Field, parts ...*types.QueryFilter) Fragment {
	predicate := types.And(parts...)
	if predicate.IsEmpty() {
		return Fragment{}
	}
	return Fragment{Joins: field.Joins, Predicate: predicate}
}

// Equality translates the equality operators of f against field.
//
// equals takes precedence over in, which takes precedence over the remaining
// operators; those are AND-ed together. A NULL column never satisfies any
// operator but specified=false.
func Equality[T any](f *filter.Filter[T], field Field) Fragment {
	if f.IsEmpty() {
		return Fragment{}
	}
	if exclusive := exclusiveOf(f, field.ident()); exclusive != nil {
		return fragmentOf(field, exclusive)
	}
	return fragmentOf(field, equalityParts(f, field.ident())...)
}

// Range translates f against field, adding the ordering operators to the
// conjunction built by Equality.
func Range[T any](f *filter.RangeFilter[T], field Field) Fragment {
	if f.IsEmpty() {
		return Fragment{}
	}
	col := field.ident()
	if exclusive := exclusiveOf(&f.Filter, col); exclusive != nil {
		return fragmentOf(field, exclusive)
	}
	return fragmentOf(field, append(equalityParts(&f.Filter, col), rangeParts(f, col)...)...)
}

func exclusiveOf[T any](f *filter.Filter[T], col bun.Ident) *types.QueryFilter {
	switch {
	case f.Equals != nil:
		return types.NewQueryFilter("? = ?", col, *f.Equals)
	case f.In != nil:
		if len(f.In) == 0 {
			return types.NewQueryFilter("1 = 0")
		}
		return types.NewQueryFilter("? IN (?)", col, bun.In(f.In))
	}
	return nil
}

func equalityParts[T any](f *filter.Filter[T], col bun.Ident) []*types.QueryFilter {
	var parts []*types.QueryFilter
	if f.Specified != nil {
		if *f.Specified {
			parts = append(parts, types.NewQueryFilter("? IS NOT NULL", col))
		} else {
			parts = append(parts, types.NewQueryFilter("? IS NULL", col))
		}
	}
	if f.NotEquals != nil {
		parts = append(parts, types.NewQueryFilter("? <> ?", col, *f.NotEquals))
	}
	if len(f.NotIn) > 0 {
		parts = append(parts, types.NewQueryFilter("? NOT IN (?)", col, bun.In(f.NotIn)))
	}
	return parts
}

func rangeParts[T any](f *filter.RangeFilter[T], col bun.Ident) []*types.QueryFilter {
	var parts []*types.QueryFilter
	if f.GreaterThan != nil {
		parts = append(parts, types.NewQueryFilter("? > ?", col, *f.GreaterThan))
	}
	if f.GreaterThanOrEqual != nil {
		parts = append(parts, types.NewQueryFilter("? >= ?", col, *f.GreaterThanOrEqual))
	}
	if f.LessThan != nil {
		parts = append(parts, types.NewQueryFilter("? < ?", col, *f.LessThan))
	}
	if f.LessThanOrEqual != nil {
		parts = append(parts, types.NewQueryFilter("? <= ?", col, *f.LessThanOrEqual))
	}
	return parts
}
