// Package model defines the bun models of the blogging domain and registers
// them with the database model registry for migrations.
package model
