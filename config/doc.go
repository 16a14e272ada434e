// Package config loads application settings from a config.yaml file and
// BLOG_ prefixed environment variables.
//
// Nested keys map to environment names by replacing dots with underscores,
// e.g. database.connection.host is overridden by BLOG_DATABASE_CONNECTION_HOST.
package config
