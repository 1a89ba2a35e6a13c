// Package api exposes the learning tools and the activity log over HTTP.
// Handlers decode and validate requests, call the contract layer and map its
// results onto stable JSON shapes. Every tool endpoint answers 200 with an
// ok flag; a failed operation still carries the notice to show the learner.
// Transport problems (bad JSON, oversized or non-image uploads, superseded
// requests) are reported with 4xx statuses through shared.RespondWithErrorAndLog.
package api
