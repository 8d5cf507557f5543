// Package api handles incoming HTTP requests, request validation and
// response formatting for the task board. Handlers translate JSON DTOs to
// service inputs and map service errors to HTTP status codes; they never
// touch stores directly.
package api
