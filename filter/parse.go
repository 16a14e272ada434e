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
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFilter is returned for unknown operators and values that cannot
// be converted to the field's type.
var ErrInvalidFilter = errors.New("invalid filter")

// Operator names accepted after the field name, e.g. "name.contains=foo".
const (
	OpEquals             = "equals"
	OpNotEquals          = "notEquals"
	OpIn                 = "in"
	OpNotIn              = "notIn"
	OpSpecified          = "specified"
	OpGreaterThan        = "greaterThan"
	OpGreaterThanOrEqual = "greaterThanOrEqual"
	OpLessThan           = "lessThan"
	OpLessThanOrEqual    = "lessThanOrEqual"
	OpContains           = "contains"
	OpDoesNotContain     = "doesNotContain"
)

func ParseBoolean(values url.Values, field string) (*BooleanFilter, error) {
	var f BooleanFilter
	err := each(values, field, func(op string, raws []string) (bool, error) {
		return f.parse(op, raws, strconv.ParseBool)
	})
	if err != nil || f.IsEmpty() {
		return nil, err
	}
	return &f, nil
}

func ParseInteger(values url.Values, field string) (*IntegerFilter, error) {
	return parseRange(values, field, strconv.Atoi)
}

func ParseLong(values url.Values, field string) (*LongFilter, error) {
	return parseRange(values, field, func(raw string) (int64, error) {
		return strconv.ParseInt(raw, 10, 64)
	})
}

func ParseDouble(values url.Values, field string) (*DoubleFilter, error) {
	return parseRange(values, field, func(raw string) (float64, error) {
		return strconv.ParseFloat(raw, 64)
	})
}

// ParseInstant accepts RFC 3339 timestamps, with or without fractional seconds.
func ParseInstant(values url.Values, field string) (*InstantFilter, error) {
	return parseRange(values, field, func(raw string) (time.Time, error) {
		return time.Parse(time.RFC3339Nano, raw)
	})
}

func ParseString(values url.Values, field string) (*StringFilter, error) {
	var f StringFilter
	identity := func(raw string) (string, error) { return raw, nil }
	err := each(values, field, func(op string, raws []string) (bool, error) {
		switch op {
		case OpContains:
			f.Contains = Of(raws[0])
		case OpDoesNotContain:
			f.DoesNotContain = Of(raws[0])
		default:
			return f.RangeFilter.parse(op, raws, identity)
		}
		return true, nil
	})
	if err != nil || f.IsEmpty() {
		return nil, err
	}
	return &f, nil
}

func parseRange[T any](values url.Values, field string, conv func(string) (T, error)) (*RangeFilter[T], error) {
	var f RangeFilter[T]
	err := each(values, field, func(op string, raws []string) (bool, error) {
		return f.parse(op, raws, conv)
	})
	if err != nil || f.IsEmpty() {
		return nil, err
	}
	return &f, nil
}

func (f *Filter[T]) parse(op string, raws []string, conv func(string) (T, error)) (bool, error) {
	var err error
	switch op {
	case OpEquals:
		f.Equals, err = convertOne(raws, conv)
	case OpNotEquals:
		f.NotEquals, err = convertOne(raws, conv)
	case OpIn:
		f.In, err = convertList(raws, conv)
	case OpNotIn:
		f.NotIn, err = convertList(raws, conv)
	case OpSpecified:
		f.Specified, err = convertOne(raws, strconv.ParseBool)
	default:
		return false, nil
	}
	return true, err
}

func (f *RangeFilter[T]) parse(op string, raws []string, conv func(string) (T, error)) (bool, error) {
	var err error
	switch op {
	case OpGreaterThan:
		f.GreaterThan, err = convertOne(raws, conv)
	case OpGreaterThanOrEqual:
		f.GreaterThanOrEqual, err = convertOne(raws, conv)
	case OpLessThan:
		f.LessThan, err = convertOne(raws, conv)
	case OpLessThanOrEqual:
		f.LessThanOrEqual, err = convertOne(raws, conv)
	default:
		return f.Filter.parse(op, raws, conv)
	}
	return true, err
}

// each visits every "field.op" parameter in a stable order. The visitor
// reports whether it knows the operator.
func each(values url.Values, field string, visit func(op string, raws []string) (bool, error)) error {
	prefix := field + "."
	keys := make([]string, 0, len(values))
	for key := range values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		op := strings.TrimPrefix(key, prefix)
		raws := values[key]
		if len(raws) == 0 {
			continue
		}
		known, err := visit(op, raws)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, key, err)
		}
		if !known {
			return fmt.Errorf("%w: unsupported operator %q for field %q", ErrInvalidFilter, op, field)
		}
	}
	return nil
}

func convertOne[T any](raws []string, conv func(string) (T, error)) (*T, error) {
	v, err := conv(raws[0])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// convertList splits every value on commas, so "in=a,b" and "in=a&in=b" agree.
// Surrounding spaces are dropped before typed conversions; string values are
// kept verbatim.
func convertList[T any](raws []string, conv func(string) (T, error)) ([]T, error) {
	var zero T
	_, verbatim := any(zero).(string)
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		for _, part := range strings.Split(raw, ",") {
			if !verbatim {
				part = strings.TrimSpace(part)
			}
			v, err := conv(part)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}
