// Package authcore is the authentication and session-security core of a
// project-tracking backend. It issues and validates HS256-signed access
// tokens, manages long-lived refresh tokens with single-use rotation and
// revocation, keeps a jti blacklist for explicit logout, and throttles
// repeated failed logins per origin address.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (TokenPair, AuthResult, MetricsSnapshot). The
// token stores and the login limiter live under internal/ and are never
// exported; the jwt and password subpackages are reusable leaves.
//
// HTTP controllers, credential storage, and everything else in the
// surrounding application are collaborators, not residents: the engine
// consumes a [UserProvider] and hands back per-call outcomes.
//
// # What this package must NOT do
//
//   - Persist token state beyond the process lifetime or replicate it
//     across nodes.
//   - Block on network or disk I/O inside Engine methods; every call is a
//     bounded in-memory critical section.
//   - Let an internal error escape as a panic or kill the process; all
//     failures are recoverable per-call outcomes.
package authcore
