// Package services talks to the FitHub REST backend.
//
// # Catalog
//
// [Catalog] is the backend surface used by the rest of the client. [CatalogClient] implements
// it over HTTP; tests use the in-memory double in internal/testing.
//
// # Identity
//
// Deployments identify the caller either with a raw X-User-ID header or with a bearer token.
// [AuthHeaders] builds whichever the configured mode asks for (or both).
//
// # Raw access
//
// [APIService] is the transport under [CatalogClient] and backs the `api` debug commands.
// It paces requests with golang.org/x/time/rate and tags each with an X-Request-ID.
//
// # Error Handling
//
// Failures use the shared taxonomy:
//   - [shared.ErrTransport] : The backend could not be reached or the body could not be read
//   - [*shared.RemoteError] : Non-2xx status, matching [shared.ErrRemote] with errors.Is
//   - [shared.ErrAuthRequired] : A user-scoped call was made without a session; no request is sent
//   - [shared.ErrVideoNotFound], [shared.ErrWorkoutNotFound] : 404s on single-resource reads
//
// Nothing retries.
package services
