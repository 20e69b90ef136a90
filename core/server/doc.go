// Package server holds the HTTP server configuration.
//
// It is intentionally small: the Fiber app itself is assembled in the start
// command, and features register their own routes through the loader. This
// package only owns the settings the server and its order-number handling
// need (listen port, API key, the historical order-number prefix).
package server
