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

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tomoncle/blog/database"
	"github.com/tomoncle/blog/utils"
)

const envPrefix = "BLOG"

// LoggingConfig selects the level and console format of named loggers.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Config is the root application configuration.
type Config struct {
	Database database.Config `mapstructure:"database"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

// ConfigLoader returns the database section.
func (c *Config) ConfigLoader() *database.Config {
	return &c.Database
}

// ApplyLogging configures the named loggers from the logging section.
func (c *Config) ApplyLogging() {
	if c.Logging.Format != "" {
		utils.ConfigureConsoleLogFormat(c.Logging.Format)
	}
	if c.Logging.Level != "" {
		utils.ConfigureLogLevel(c.Logging.Level)
	}
}

var _ database.AbstractDatabaseConfigProvider = (*Config)(nil)

// Load reads config.yaml from dir when present, on top of the defaults,
// and applies BLOG_ environment overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so that environment overrides are seen
// by Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	conn := database.DefaultConnectionConfig()
	defaults := map[string]interface{}{
		"database.connection.type":                  "sqlite",
		"database.connection.host":                  "",
		"database.connection.port":                  0,
		"database.connection.username":              "",
		"database.connection.password":              "",
		"database.connection.dbname":                "blog",
		"database.connection.sslmode":               "",
		"database.connection.max_idle_conns":        conn.MaxIdleConns,
		"database.connection.max_open_conns":        conn.MaxOpenConns,
		"database.connection.conn_max_lifetime":     conn.ConnMaxLifetime,
		"database.connection.conn_max_idle_time":    conn.ConnMaxIdleTime,
		"database.connection.connect_timeout":       conn.ConnectTimeout,
		"database.connection.read_timeout":          conn.ReadTimeout,
		"database.connection.write_timeout":         conn.WriteTimeout,
		"database.connection.enable_reconnect":      conn.EnableReconnect,
		"database.connection.reconnect_interval":    conn.ReconnectInterval,
		"database.connection.max_reconnect_tries":   conn.MaxReconnectTries,
		"database.connection.health_check_interval": conn.HealthCheckInterval,
		"database.connection.enable_query_log":      conn.EnableQueryLog,
		"database.connection.slow_query_time":       conn.SlowQueryTime,

		"database.migrate.enable_migrate_on_startup": true,
		"database.migrate.enable_foreign_key":        false,
		"database.migrate.foreign_key_file":          "",

		"database.init.auto_init_on_migration": false,
		"database.init.filepath":               "configs/sql",
		"database.init.environment":            "development",

		"logging.level":  "info",
		"logging.format": "text",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
