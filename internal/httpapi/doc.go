// Package httpapi exposes the browser over HTTP for frontends and scripts.
//
// Routes mirror the screens of the terminal UI:
//
//	GET    /api/movies/popular?page=N
//	GET    /api/movies/search?q=...&page=N
//	GET    /api/movies/{slug}              slug is "{title}-{base36 id}"
//	GET    /api/favorites
//	DELETE /api/favorites
//	PUT    /api/favorites/{id}
//	DELETE /api/favorites/{id}
//	POST   /api/favorites/{id}/toggle
//	GET    /api/favorites/movies?sort=title-asc
//	GET    /healthz
//	GET    /metrics
//
// Movie payloads carry the detail path in "url" and the current favorite
// state in "favorite". Upstream failures map to 502, an open circuit
// breaker to 503, and an upstream timeout to 504. Errors are JSON objects
// with a single "error" field holding the raw message.
package httpapi
