// Package jwt wraps github.com/golang-jwt/jwt/v5 with the access-token
// policy of the authcore engine.
//
// # Token format
//
// Compact JWS: three dot-separated base64url segments (header, payload,
// signature), HS256-signed. The payload carries jti (random UUID), sub
// (username), role, iat, and exp.
//
// # Key material
//
// The signing key is derived once from the configured secret. Secrets
// shorter than 32 bytes are zero-padded to exactly 32; longer secrets are
// used unchanged. This is deliberately not a KDF — changing it would change
// which signatures a given secret produces.
//
// # Architecture boundaries
//
// This package owns signing, parsing, and claim structure. Revocation
// (the jti blacklist) and refresh-token state are handled by the Engine
// and its stores.
//
// # What this package must NOT do
//
//   - Hold mutable state beyond the immutable key.
//   - Consult the blacklist or any store.
//   - Import authcore or internal packages.
package jwt
