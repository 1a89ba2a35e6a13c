// Package store defines the persistence boundary for the activity log.
// Implementations live under internal/platform (memory, PostgreSQL, Redis)
// and hold opaque serialized log values addressed by a storage key.
package store
