// Package api exposes the HTTP surface of the daemon: synchronous chat,
// agent catalog listing, the chat archive, and the asynchronous task
// endpoints. Handlers stay thin and delegate to the orchestrator and the
// task service.
package api
