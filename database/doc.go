// Package database provides connection management, migrations, foreign key
// handling, SQL seeding, configuration types, logging, health checks,
// and SQL error classification built on top of Bun.
package database
