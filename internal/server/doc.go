// Package server provides HTTP routing and an in-memory FitHub backend for local development and tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so handlers read path
// parameters with [http.Request.PathValue].
//
// # Development Backend
//
// [Backend] serves the same REST surface the client consumes (videos, exercises, workouts,
// favorites, profiles, auth) from memory. It accepts either identity form: a raw X-User-ID header
// or a bearer token it issued at login. Passwords are hashed with bcrypt and tokens are HS256 JWTs.
//
// `fitx serve` runs it on localhost; client tests run it under httptest.
package server
