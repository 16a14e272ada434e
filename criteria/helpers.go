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
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/tomoncle/blog/filter"
)

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func boolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func parseDistinct(values url.Values) (*bool, error) {
	raw := values.Get("distinct")
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct: %v", filter.ErrInvalidFilter, err)
	}
	return &b, nil
}

type fieldWriter struct {
	parts []string
}

// filter skips typed nil pointers, which a plain interface nil check would miss.
func (w *fieldWriter) filter(name string, f fmt.Stringer) {
	if f == nil || reflect.ValueOf(f).IsNil() {
		return
	}
	w.parts = append(w.parts, name+"="+f.String())
}

func (w *fieldWriter) flag(name string, b *bool) {
	if b != nil {
		w.parts = append(w.parts, name+"="+strconv.FormatBool(*b))
	}
}

func (w *fieldWriter) String(typ string) string {
	return typ + "{" + strings.Join(w.parts, ", ") + "}"
}
