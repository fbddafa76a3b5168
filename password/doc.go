// Package password provides bcrypt credential hashing and verification
// for the user records consumed by the Engine's login flow.
//
// Password policy (length, complexity, rotation) is out of scope; callers
// supply already-hashed credentials and this package only answers "does
// this plaintext match this hash".
package password
