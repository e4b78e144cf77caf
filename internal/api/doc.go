// Package api exposes the task and batch operations over HTTP. Handlers
// decode and validate requests, delegate to the service layer, and render
// JSON responses, keeping transport concerns out of the business logic.
package api
