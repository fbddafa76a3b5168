package authcore

// UserRecord is the credential record returned by [UserProvider]: the
// username, its bcrypt password hash, and the role assigned to it.
type UserRecord struct {
	Username     string
	PasswordHash string
	Role         string
}

// UserProvider is the interface callers implement to connect the engine to
// their credential store. Lookup failures of any kind surface to the
// caller as [ErrInvalidCredentials]; the engine does not distinguish
// "unknown user" from "backend error" in its external signal.
type UserProvider interface {
	GetUserByIdentifier(identifier string) (UserRecord, error)
}

// TokenPair is the result of a successful login or refresh: a signed
// access token, its rotating opaque refresh token, and the access-token
// lifetime in milliseconds for the HTTP layer to surface.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthResult is returned by [Engine.Validate] and carries the verified
// identity for downstream authorization.
type AuthResult struct {
	Username string
	Role     string
}
