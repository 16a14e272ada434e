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

package filter

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Filter is an optional constraint on a field of type T. Every operator is
// independently optional; a filter with no operator set matches everything.
type Filter[T any] struct {
	Equals    *T    `json:"equals,omitempty"`
	NotEquals *T    `json:"notEquals,omitempty"`
	In        []T   `json:"in,omitempty"`
	NotIn     []T   `json:"notIn,omitempty"`
	Specified *bool `json:"specified,omitempty"`
}

// RangeFilter adds ordering operators to Filter for orderable types.
type RangeFilter[T any] struct {
	Filter[T]
	GreaterThan        *T `json:"greaterThan,omitempty"`
	GreaterThanOrEqual *T `json:"greaterThanOrEqual,omitempty"`
	LessThan           *T `json:"lessThan,omitempty"`
	LessThanOrEqual    *T `json:"lessThanOrEqual,omitempty"`
}

// StringFilter adds substring matching to a range filter over text.
type StringFilter struct {
	RangeFilter[string]
	Contains       *string `json:"contains,omitempty"`
	DoesNotContain *string `json:"doesNotContain,omitempty"`
}

type (
	BooleanFilter = Filter[bool]
	IntegerFilter = RangeFilter[int]
	LongFilter    = RangeFilter[int64]
	DoubleFilter  = RangeFilter[float64]
	InstantFilter = RangeFilter[time.Time]
)

// Of returns a pointer to v.
func Of[T any](v T) *T {
	return &v
}

func (f *Filter[T]) IsEmpty() bool {
	return f == nil || (f.Equals == nil && f.NotEquals == nil && f.In == nil && f.NotIn == nil && f.Specified == nil)
}

// Copy returns a deep copy; nothing is shared with the receiver.
func (f *Filter[T]) Copy() *Filter[T] {
	if f == nil {
		return nil
	}
	return &Filter[T]{
		Equals:    copyPtr(f.Equals),
		NotEquals: copyPtr(f.NotEquals),
		In:        slices.Clone(f.In),
		NotIn:     slices.Clone(f.NotIn),
		Specified: copyPtr(f.Specified),
	}
}

func (f *Filter[T]) Equal(o *Filter[T]) bool {
	if f == nil || o == nil {
		return f == o
	}
	return ptrEqual(f.Equals, o.Equals) &&
		ptrEqual(f.NotEquals, o.NotEquals) &&
		sliceEqual(f.In, o.In) &&
		sliceEqual(f.NotIn, o.NotIn) &&
		ptrEqual(f.Specified, o.Specified)
}

func (f *Filter[T]) String() string {
	if f == nil {
		return "<nil>"
	}
	var parts []string
	f.describe(&parts)
	return "Filter{" + strings.Join(parts, ", ") + "}"
}

func (f *Filter[T]) describe(parts *[]string) {
	appendPtr(parts, "equals", f.Equals)
	appendPtr(parts, "notEquals", f.NotEquals)
	if f.In != nil {
		*parts = append(*parts, fmt.Sprintf("in=%v", f.In))
	}
	if f.NotIn != nil {
		*parts = append(*parts, fmt.Sprintf("notIn=%v", f.NotIn))
	}
	appendPtr(parts, "specified", f.Specified)
}

func (f *RangeFilter[T]) IsEmpty() bool {
	return f == nil || (f.Filter.IsEmpty() &&
		f.GreaterThan == nil && f.GreaterThanOrEqual == nil &&
		f.LessThan == nil && f.LessThanOrEqual == nil)
}

func (f *RangeFilter[T]) Copy() *RangeFilter[T] {
	if f == nil {
		return nil
	}
	return &RangeFilter[T]{
		Filter:             *f.Filter.Copy(),
		GreaterThan:        copyPtr(f.GreaterThan),
		GreaterThanOrEqual: copyPtr(f.GreaterThanOrEqual),
		LessThan:           copyPtr(f.LessThan),
		LessThanOrEqual:    copyPtr(f.LessThanOrEqual),
	}
}

func (f *RangeFilter[T]) Equal(o *RangeFilter[T]) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Filter.Equal(&o.Filter) &&
		ptrEqual(f.GreaterThan, o.GreaterThan) &&
		ptrEqual(f.GreaterThanOrEqual, o.GreaterThanOrEqual) &&
		ptrEqual(f.LessThan, o.LessThan) &&
		ptrEqual(f.LessThanOrEqual, o.LessThanOrEqual)
}

func (f *RangeFilter[T]) String() string {
	if f == nil {
		return "<nil>"
	}
	var parts []string
	f.describe(&parts)
	return "RangeFilter{" + strings.Join(parts, ", ") + "}"
}

func (f *RangeFilter[T]) describe(parts *[]string) {
	f.Filter.describe(parts)
	appendPtr(parts, "greaterThan", f.GreaterThan)
	appendPtr(parts, "greaterThanOrEqual", f.GreaterThanOrEqual)
	appendPtr(parts, "lessThan", f.LessThan)
	appendPtr(parts, "lessThanOrEqual", f.LessThanOrEqual)
}

func (f *StringFilter) IsEmpty() bool {
	return f == nil || (f.RangeFilter.IsEmpty() && f.Contains == nil && f.DoesNotContain == nil)
}

func (f *StringFilter) Copy() *StringFilter {
	if f == nil {
		return nil
	}
	return &StringFilter{
		RangeFilter:    *f.RangeFilter.Copy(),
		Contains:       copyPtr(f.Contains),
		DoesNotContain: copyPtr(f.DoesNotContain),
	}
}

func (f *StringFilter) Equal(o *StringFilter) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.RangeFilter.Equal(&o.RangeFilter) &&
		ptrEqual(f.Contains, o.Contains) &&
		ptrEqual(f.DoesNotContain, o.DoesNotContain)
}

func (f *StringFilter) String() string {
	if f == nil {
		return "<nil>"
	}
	var parts []string
	f.RangeFilter.describe(&parts)
	appendPtr(&parts, "contains", f.Contains)
	appendPtr(&parts, "doesNotContain", f.DoesNotContain)
	return "StringFilter{" + strings.Join(parts, ", ") + "}"
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// valueEqual prefers a type's own Equal method, so time.Time values that
// denote the same instant compare equal regardless of location.
func valueEqual[T any](a, b T) bool {
	if eq, ok := any(a).(interface{ Equal(T) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

func ptrEqual[T any](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return valueEqual(*a, *b)
}

func sliceEqual[T any](a, b []T) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func appendPtr[T any](parts *[]string, name string, p *T) {
	if p != nil {
		*parts = append(*parts, fmt.Sprintf("%s=%v", name, *p))
	}
}
