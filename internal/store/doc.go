// Package store defines the persistence interfaces for users, roles, tasks,
// task statuses, task priorities and task comments, together with the query
// types used to filter, sort and page task listings. Implementations live
// under internal/platform; services depend only on these interfaces.
package store
