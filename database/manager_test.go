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

package database

import (
	"context"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect"
)

func TestDriverDSNs(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Host = "db"
	cfg.Port = 3306
	cfg.Username = "blog"
	cfg.Password = "p@ss"
	cfg.DBName = "blog"

	cfg.Type = "mysql"
	driver, dsn, d, err := driverFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql", driver)
	assert.Equal(t, dialect.MySQL, d.Name())
	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, cfg.ConnectTimeout, parsed.Timeout)

	cfg.Type = "postgres"
	cfg.Port = 5432
	driver, dsn, d, err = driverFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, dialect.PG, d.Name())
	assert.Equal(t, "postgres://blog:p%40ss@db:5432/blog?connect_timeout=10&sslmode=disable", dsn)

	cfg.Type = "sqlite"
	_, dsn, d, err = driverFor(cfg)
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, d.Name())
	assert.Equal(t, "blog.db", dsn)

	cfg.Type = "oracle"
	_, _, _, err = driverFor(cfg)
	assert.Error(t, err)
}

func TestMemoryManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	dm := newDatabaseManager(MemoryConfig())
	require.NoError(t, dm.Connect(ctx))
	require.NoError(t, dm.Connect(ctx))
	require.NoError(t, dm.Ping(ctx))
	assert.Equal(t, 1, dm.GetStats().MaxOpenConns)

	require.NoError(t, dm.Disconnect())
	assert.Nil(t, dm.GetDB())
	assert.Error(t, dm.Ping(ctx))
	assert.False(t, dm.HealthCheck(ctx).Healthy)
	assert.Equal(t, DBStats{}, *dm.GetStats())
}
