// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings of the server, database, authentication,
// cache, event dispatcher, tracing and initial seed data.
package config
