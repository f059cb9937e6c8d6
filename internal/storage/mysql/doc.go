// Package mysql provides data access helpers backed by MySQL, plus a
// file-based fallback for local development. It persists the chat archive:
// finished conversations kept for auditing and display only.
package mysql
