// Package service contains the use cases of the task board: managing users,
// tasks, task comments and the status and priority catalogs, authenticating
// callers and seeding a fresh database.
//
// Services depend on the store interfaces, never on a concrete database.
// Every mutating operation runs inside store.RunInTransaction and uses the
// transaction-bound stores obtained through WithTx. Ownership rules (a user
// editing their own account, an assignee editing their task, a comment author
// editing their comment) are enforced here and reported as ErrForbidden;
// role gates are applied earlier by the HTTP middleware.
//
// Store errors pass through wrapped, so callers can keep matching them with
// errors.Is (store.ErrTaskNotFound, store.ErrEmailExists and so on).
package service
