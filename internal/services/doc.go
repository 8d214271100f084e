// Package services implements the client for the remote playlist API (the /lists resource).
//
// # Operations
//
// [PlaylistService] is the interface every consumer depends on. [PlaylistClient] implements it over HTTP:
//
//	POST   /lists         create          (user role)
//	GET    /lists         list all        (user role)
//	GET    /lists/{name}  find by name    (user role)
//	DELETE /lists/{name}  delete by name  (admin role)
//
// Names are path-escaped. Each request carries the fixed HTTP Basic credentials of its role; there is no
// token exchange and no session.
//
// # Error Handling
//
// Every failure, transport or HTTP, comes back as an [*APIError] holding only a display string:
//   - transport failures and undecodable bodies : "Error: <cause>"
//   - 401, 403, 404, 409, 5xx : fixed messages (409 prefers the body's message)
//   - anything else : the body's message or "HTTP error <status>"
//
// Nothing is retried. An optional [rate.Limiter] spaces requests out when configured.
package services
