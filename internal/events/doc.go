// Package events decouples the contract layer from the activity log.
//
// The assistant service emits an ActivityEvent after every successful
// generation; handlers registered on an EventEmitter decide what to do
// with it. The activity package registers the handler that appends the
// matching audit entry.
package events
