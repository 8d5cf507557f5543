// Package domain contains the core business entities of the task board:
// users and their roles, tasks, task statuses, task priorities and task
// comments. Entities validate their own invariants and know nothing about
// storage or transport.
package domain
