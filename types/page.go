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

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 2000
)

// ErrInvalidPage is returned when paging or sorting parameters cannot be parsed.
var ErrInvalidPage = errors.New("invalid page request")

// Order is a single sort instruction on an entity column.
type Order struct {
	Column string
	Desc   bool
}

func (o Order) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// PageRequest describes pagination and ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []Order
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	if p.pageSize > MaxPageSize {
		p.pageSize = MaxPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = DefaultPage
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetOrders() []Order {
	return p.orders
}

func (p *PageRequest) String() string {
	orders := make([]string, len(p.orders))
	for i, o := range p.orders {
		orders[i] = o.String()
	}
	return fmt.Sprintf("Page{page=%d, size=%d, sort=[%s]}", p.GetPage(), p.GetPageSize(), strings.Join(orders, ", "))
}

// NewPageRequest constructs a PageRequest with order settings.
func NewPageRequest(page int, pageSize int, orders ...Order) *PageRequest {
	return &PageRequest{page, pageSize, orders}
}

// NewDefaultPageRequest constructs a PageRequest with no ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize)
}

// ParseSort parses sort expressions of the form "column" or "column,asc|desc".
func ParseSort(exprs ...string) ([]Order, error) {
	orders := make([]Order, 0, len(exprs))
	for _, expr := range exprs {
		column, direction, _ := strings.Cut(strings.TrimSpace(expr), ",")
		column = strings.TrimSpace(column)
		if column == "" {
			return nil, fmt.Errorf("%w: empty sort column in %q", ErrInvalidPage, expr)
		}
		order := Order{Column: column}
		switch strings.ToLower(strings.TrimSpace(direction)) {
		case "", "asc":
		case "desc":
			order.Desc = true
		default:
			return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidPage, direction)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ParsePageRequest reads "page", "size" and repeated "sort" parameters.
func ParsePageRequest(values url.Values) (*PageRequest, error) {
	page, err := parsePositive(values, "page", DefaultPage)
	if err != nil {
		return nil, err
	}
	size, err := parsePositive(values, "size", DefaultPageSize)
	if err != nil {
		return nil, err
	}
	orders, err := ParseSort(values["sort"]...)
	if err != nil {
		return nil, err
	}
	return NewPageRequest(page, size, orders...), nil
}

func parsePositive(values url.Values, key string, def int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidPage, key, raw)
	}
	return n, nil
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// TotalPages returns the number of pages needed for Total items.
func (p *Pagination[T]) TotalPages() int {
	if p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
