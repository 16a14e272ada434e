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
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/blog/database"
	"github.com/tomoncle/blog/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db        *bun.DB
	table     *schema.Table
	relations []string
}

// Option configures a repository.
type Option func(*options)

type options struct {
	relations []string
}

// WithRelations loads the named bun relations on every read.
func WithRelations(relations ...string) Option {
	return func(o *options) {
		o.relations = append(o.relations, relations...)
	}
}

// NewRepository returns a generic repository backed by the provided Bun DB.
// Models using m2m relations must be registered on db beforehand.
func NewRepository[T any](db *bun.DB, opts ...Option) Repository[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &baseRepositoryImpl[T]{
		db:        db,
		table:     db.Table(reflect.TypeOf((*T)(nil)).Elem()),
		relations: o.relations,
	}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) Table() *schema.Table { return r.table }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) ValsToSlice(entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) idb(tx *bun.Tx) bun.IDB {
	if tx != nil {
		return *tx
	}
	return r.db
}

// pk is the qualified primary key column; reads join relations, so a bare "id"
// would be ambiguous.
func (r *baseRepositoryImpl[T]) pk() bun.Ident {
	return r.column(r.table.PKs[0].Name)
}

func (r *baseRepositoryImpl[T]) column(name string) bun.Ident {
	return bun.Ident(r.table.Alias + "." + name)
}

func (r *baseRepositoryImpl[T]) withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}
	return q
}

func (r *baseRepositoryImpl[T]) order(q *bun.SelectQuery, orders []types.Order) (*bun.SelectQuery, error) {
	if len(orders) == 0 {
		return q.OrderExpr("? ASC", r.pk()), nil
	}
	for _, o := range orders {
		if !r.table.HasField(o.Column) {
			return nil, fmt.Errorf("%w: %s has no column %q", ErrUnknownColumn, r.table.Name, o.Column)
		}
		if o.Desc {
			q = q.OrderExpr("? DESC", r.column(o.Column))
		} else {
			q = q.OrderExpr("? ASC", r.column(o.Column))
		}
	}
	return q, nil
}

func applySpec(spec Specification, q *bun.SelectQuery) *bun.SelectQuery {
	if spec == nil {
		return q
	}
	return spec.Apply(q)
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	return r.GetOneWithTx(ctx, nil, id)
}

func (r *baseRepositoryImpl[T]) GetOneWithTx(ctx context.Context, tx *bun.Tx, id any) (*T, error) {
	var entity T
	err := r.withRelations(r.idb(tx).NewSelect().Model(&entity)).
		Where("? = ?", r.pk(), id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.FindAllBySpec(ctx, nil)
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.withRelations(r.db.NewSelect().Model(&entities))
	if !filter.IsEmpty() {
		query = query.Where(filter.Schema, filter.Args...)
	}
	err := query.OrderExpr("? ASC", r.pk()).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, err
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	return r.List(ctx, types.NewQueryFilter(query, args...))
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	return r.FindPageBySpec(ctx, nil, pageRequest)
}

func (r *baseRepositoryImpl[T]) FindAllBySpec(ctx context.Context, spec Specification, orders ...types.Order) ([]*T, error) {
	var entities []*T
	query, err := r.order(applySpec(spec, r.withRelations(r.db.NewSelect().Model(&entities))), orders)
	if err != nil {
		return nil, err
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) FindPageBySpec(ctx context.Context, spec Specification, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(types.DefaultPage, types.DefaultPageSize)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := r.CountBySpec(ctx, spec)
	if err != nil || total == 0 {
		return pagination, err
	}
	var entities []*T
	query, err := r.order(applySpec(spec, r.withRelations(r.db.NewSelect().Model(&entities))), pageRequest.GetOrders())
	if err != nil {
		return nil, err
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

// CountBySpec counts matching rows. Distinct specifications are counted over
// the distinct primary keys so that joined duplicates are not included.
func (r *baseRepositoryImpl[T]) CountBySpec(ctx context.Context, spec Specification) (int, error) {
	if spec == nil || !spec.IsDistinct() {
		return applySpec(spec, r.db.NewSelect().Model((*T)(nil))).Count(ctx)
	}
	keys := spec.Apply(r.db.NewSelect().Model((*T)(nil)).ColumnExpr("?", r.pk()))
	return r.db.NewSelect().TableExpr("(?) AS ?", keys, bun.Ident("distinct_rows")).Count(ctx)
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	return r.CreateWithTx(ctx, nil, entity...)
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, nil, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) error {
	return r.SaveWithTx(ctx, nil, entity)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	return r.UpdateWithTx(ctx, nil, entity)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	return r.DeleteWithTx(ctx, nil, id)
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, fn)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := r.idb(tx).NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, tx, fields, duplicateKeys, entity...)
}

// SaveWithTx inserts entities without an id and replaces the row with the
// same id otherwise.
func (r *baseRepositoryImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	identifiable, ok := any(entity).(Identifiable)
	if !ok {
		return fmt.Errorf("save %s: model does not implement Identifiable", r.table.Name)
	}
	if identifiable.GetID() == 0 {
		_, err := r.idb(tx).NewInsert().Model(entity).Exec(ctx)
		return err
	}
	fields := make([]string, 0, len(r.table.DataFields))
	for _, f := range r.table.DataFields {
		fields = append(fields, f.Name)
	}
	if len(fields) == 0 {
		_, err := r.idb(tx).NewInsert().Model(entity).Ignore().Exec(ctx)
		return err
	}
	return r.multipleUpsert(ctx, tx, fields, []string{r.table.PKs[0].Name}, entity)
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	_, err := r.idb(tx).NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	_, err := r.idb(tx).NewDelete().Model((*T)(nil)).Where("? = ?", r.pk(), id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) multipleUpsert(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}

	insertQuery := r.idb(tx).NewInsert()
	entities := r.ValsToSlice(entity...)

	if r.db.HasFeature(feature.InsertOnConflict) {
		return r.upsertWithPostgresqlOrSQLite(ctx, insertQuery, fields, duplicateKeys, entities)
	} else if r.db.HasFeature(feature.InsertOnDuplicateKey) {
		return r.upsertWithMySQL(ctx, insertQuery, fields, entities)
	}
	// Separate insert/update logic
	return r.upsertFallback(ctx, r.idb(tx), entities)
}

func (r *baseRepositoryImpl[T]) upsertWithMySQL(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, entities []*T) error {
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := insertQuery.
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{r.table.PKs[0].Name}
	}
	keyNames := strings.Join(duplicateKeys, ",")
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := insertQuery.
		Model(&entities).
		On("CONFLICT (" + keyNames + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, db bun.IDB, entities []*T) error {
	for _, entity := range entities {
		_, err := db.NewInsert().Model(entity).Exec(ctx)
		if err == nil {
			continue
		}
		if is, kind := database.IsSqlError(err); !is || kind != database.DuplicateKeyErr {
			return err
		}
		if _, updateErr := db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
			return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %w", err, updateErr)
		}
	}
	return nil
}
