// Package tmdb provides an HTTP client for The Movie Database (TMDB) v3 API.
//
// # Overview
//
// The client covers the three read-only endpoints the browser uses:
//
//   - GET /movie/popular: paginated popular listing
//   - GET /search/movie: paginated title search
//   - GET /movie/{id}: full detail record for one movie
//
// Paginated responses decode into Page[Movie]; detail responses decode into
// MovieDetails, which embeds Movie and adds genres, runtime, tagline, status,
// budget and revenue.
//
// # Authentication
//
// TMDB accepts either a v3 API key (sent as the api_key query parameter) or a
// v4 read access token (sent as a bearer token). When both are configured the
// token is used. The language and region parameters are attached to every
// request from Options.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Wait on a token-bucket limiter (golang.org/x/time/rate)
//   - Run through a circuit breaker (sony/gobreaker) that opens after five
//     consecutive upstream failures
//   - Carry Accept, User-Agent and a per-request X-Request-Id header
//   - Record latency and status in the metrics package
//
// Client errors (4xx other than 429) do not count against the breaker: a
// missing movie says nothing about upstream health.
//
// # Error Handling
//
// Non-2xx responses become *APIError. Errors for 404 and 401 match
// ErrNotFound and ErrUnauthorized with errors.Is.
//
// Example error messages:
//   - "execute request: dial tcp: connection refused"
//   - "api /movie/popular returned status 401: Invalid API key"
//   - "decode response: ..."
//   - "tmdb unavailable: circuit breaker is open"
//
// # Images
//
// ImageURL joins the image host, a size token and the artwork path. Movies
// without artwork get PlaceholderPoster.
package tmdb
