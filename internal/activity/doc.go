// Package activity implements the append-only, bounded learner activity log.
//
// A Log caches decoded entries per storage key, appends new entries, drops
// the oldest ones beyond its cap and writes the whole array back through a
// store.ActivityStore after every append. Stored values that cannot be
// decoded are treated as an empty log.
package activity
