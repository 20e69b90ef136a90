// Package middleware groups the HTTP middlewares used by the server:
//
//   - rayid: assigns a unique ray id to every request for log correlation
//   - auth: API-key protection for the whole API surface
//
// Each middleware lives in its own subpackage and exposes a New constructor
// returning a fiber.Handler.
package middleware
