// Package stores holds the engine-owned in-memory token state: the
// refresh-token map and the jti blacklist.
//
// Both stores are plain maps guarded by a mutex. Every exported operation
// is a single bounded critical section, so per-key operations are
// linearizable with respect to each other and no caller-side locking is
// needed. State lives for the process lifetime only.
//
// # What this package must NOT do
//
//   - Perform I/O of any kind.
//   - Start goroutines; sweeping is driven by the Engine's reclaimer.
//   - Import authcore or jwt.
package stores
