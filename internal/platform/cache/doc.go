// Package cache provides Redis read-through caching for the task status and
// task priority lookups that every task write and read resolves.
//
// Cached stores decorate a store implementation. Reads are served from Redis
// when possible and fall back to the wrapped store; writes go to the wrapped
// store and then invalidate the cached entries of that table. A nil Redis
// client turns the decorator into a pass-through.
package cache
