// Package events carries domain events from the services to the components
// that react to them.
//
// Services publish through the EventEmitter interface and never learn which
// handlers are registered. InMemoryEventEmitter fans events out synchronously;
// AsyncEmitter puts a bounded queue and a worker pool in front of it so that
// handlers run outside the request path. ActivityLogHandler records task and
// comment activity as structured log lines.
package events
