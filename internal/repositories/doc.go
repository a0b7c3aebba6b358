// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [LocalStore] : String key/value store holding the session and water counter
//   - [VideoRepository] : Offline copy of the catalog in backend order
//
// Both accept a [DBTX] so they can run inside a transaction opened by [WithTx].
package repositories
