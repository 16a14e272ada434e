// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, specification queries, pagination, transactions, and
// upsert support.
package repository
