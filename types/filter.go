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

package types

import "strings"

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// IsEmpty reports whether the filter carries no condition.
func (f *QueryFilter) IsEmpty() bool {
	return f == nil || strings.TrimSpace(f.Schema) == ""
}

// And folds the non-empty filters into one conjunction. It returns nil when
// nothing is left, which callers treat as "match everything".
func And(filters ...*QueryFilter) *QueryFilter {
	parts := make([]*QueryFilter, 0, len(filters))
	for _, f := range filters {
		if !f.IsEmpty() {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}
	var sb strings.Builder
	args := make([]interface{}, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteByte('(')
		sb.WriteString(p.Schema)
		sb.WriteByte(')')
		args = append(args, p.Args...)
	}
	return &QueryFilter{Schema: sb.String(), Args: args}
}
