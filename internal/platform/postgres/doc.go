// Package postgres provides the PostgreSQL implementation of
// store.ActivityStore together with connection setup and the embedded
// goose migrations that create its table.
package postgres
