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
	"fmt"
	"strings"

	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
)

// Specification is a conjunction of fragments plus the duplicate suppression
// flag. The zero value, and the value returned by Where, match every row.
type Specification struct {
	distinct   bool
	joins      []Join
	predicates []*types.QueryFilter
}

// Where starts an empty specification.
func Where() *Specification {
	return &Specification{}
}

// Distinct sets duplicate suppression. Calling it again replaces the flag.
func (s *Specification) Distinct(distinct bool) *Specification {
	s.distinct = distinct
	return s
}

// And adds f to the conjunction. Joins already present under the same alias
// are not added twice.
func (s *Specification) And(f Fragment) *Specification {
	if f.IsEmpty() {
		return s
	}
	for _, join := range f.Joins {
		if !s.hasJoin(join.Alias) {
			s.joins = append(s.joins, join)
		}
	}
	s.predicates = append(s.predicates, f.Predicate)
	return s
}

func (s *Specification) hasJoin(alias string) bool {
	for _, j := range s.joins {
		if j.Alias == alias {
			return true
		}
	}
	return false
}

func (s *Specification) IsDistinct() bool {
	return s != nil && s.distinct
}

func (s *Specification) Joins() []Join {
	if s == nil {
		return nil
	}
	return s.joins
}

// Predicate folds the fragments into one filter; nil means match all.
func (s *Specification) Predicate() *types.QueryFilter {
	if s == nil {
		return nil
	}
	return types.And(s.predicates...)
}

// Apply adds, in order, DISTINCT, the joins and the WHERE clause to q.
func (s *Specification) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if s == nil {
		return q
	}
	if s.distinct {
		q = q.Distinct()
	}
	for _, join := range s.joins {
		q = join.apply(q)
	}
	if predicate := s.Predicate(); !predicate.IsEmpty() {
		q = q.Where(predicate.Schema, predicate.Args...)
	}
	return q
}

func (s *Specification) String() string {
	if s == nil {
		return "Specification{}"
	}
	aliases := make([]string, len(s.joins))
	for i, j := range s.joins {
		aliases[i] = j.Alias
	}
	schema := ""
	if predicate := s.Predicate(); predicate != nil {
		schema = predicate.Schema
	}
	return fmt.Sprintf("Specification{distinct=%t, joins=[%s], where=%q}", s.distinct, strings.Join(aliases, " "), schema)
}
