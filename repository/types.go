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

package repository

import (
	"context"
	"errors"

	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// ErrUnknownColumn is returned when a sort order names a column the model
// does not have.
var ErrUnknownColumn = errors.New("unknown column")

// Specification restricts a select query. Implementations add their own
// joins and WHERE clause; IsDistinct reports whether duplicate rows caused by
// those joins are suppressed.
type Specification interface {
	Apply(q *bun.SelectQuery) *bun.SelectQuery
	IsDistinct() bool
}

// Identifiable is implemented by models with a numeric, storage assigned id.
type Identifiable interface {
	GetID() int64
}

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Query(ctx context.Context, query string, args ...interface{}) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Save(ctx context.Context, entity *T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
	GetOneWithTx(ctx context.Context, tx *bun.Tx, id any) (*T, error)
	CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
	SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error
	DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// SpecificationRepository executes opaque specifications.
type SpecificationRepository[T any] interface {
	FindAllBySpec(ctx context.Context, spec Specification, orders ...types.Order) ([]*T, error)
	FindPageBySpec(ctx context.Context, spec Specification, page *types.PageRequest) (*types.Pagination[T], error)
	CountBySpec(ctx context.Context, spec Specification) (int, error)
}

// Repository combines CRUD, pagination, specification and transactional
// operations and exposes Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	SpecificationRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
	Table() *schema.Table
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
