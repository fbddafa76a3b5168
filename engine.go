package authcore

import (
	"context"
	"sync"

	"github.com/sgcd-pm/authcore/internal/rate"
	"github.com/sgcd-pm/authcore/internal/stores"
	"github.com/sgcd-pm/authcore/jwt"
	"github.com/sgcd-pm/authcore/password"
)

// Engine is the authentication and session-security core: it issues and
// verifies access tokens, rotates refresh tokens, maintains the logout
// blacklist, and throttles failed logins per origin address. All state is
// owned by the instance; nothing is process-global. Engine methods are
// safe for concurrent use after [Builder.Build].
type Engine struct {
	config       Config
	jwtManager   *jwt.Manager
	refreshStore *stores.RefreshStore
	blacklist    *stores.Blacklist
	rateLimiter  *rate.Limiter
	passwordHash *password.Bcrypt
	userProvider UserProvider
	metrics      *Metrics

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// Login authenticates username+password and mints a token pair. The
// origin address from [WithClientIP] keys the rate limiter: a throttled
// address is denied before credentials are examined, a failed attempt is
// counted against it, and a successful login clears it. When the context
// carries no address, Login skips the limiter.
func (e *Engine) Login(ctx context.Context, username, pass string) (TokenPair, error) {
	if e == nil || e.userProvider == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)
	if ip != "" && !e.rateLimiter.Allow(ip) {
		e.metricInc(MetricLoginRateLimited)
		return TokenPair{}, ErrLoginRateLimited
	}

	user, err := e.userProvider.GetUserByIdentifier(username)
	if err != nil || !e.passwordHash.Verify(pass, user.PasswordHash) {
		if ip != "" {
			e.rateLimiter.RecordFailure(ip)
		}
		e.metricInc(MetricLoginFailure)
		return TokenPair{}, ErrInvalidCredentials
	}

	if ip != "" {
		e.rateLimiter.Reset(ip)
	}

	pair, err := e.issuePair(user.Username, user.Role)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return TokenPair{}, err
	}

	e.metricInc(MetricLoginSuccess)
	return pair, nil
}

// Refresh redeems a refresh token and rotates it: the presented token is
// revoked and a fresh pair is minted for the identity+role captured at
// minting time. Unknown, expired, and already-rotated tokens are
// indistinguishable to the caller.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if e == nil || e.refreshStore == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	record, ok := e.refreshStore.Redeem(refreshToken)
	if !ok {
		e.metricInc(MetricRefreshFailure)
		return TokenPair{}, ErrRefreshInvalid
	}

	// Rotation: redemption does not consume, deletion happens here.
	e.refreshStore.Revoke(refreshToken)

	pair, err := e.issuePair(record.Username, record.Role)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return TokenPair{}, err
	}

	e.metricInc(MetricRefreshSuccess)
	return pair, nil
}

// issuePair mints the access+refresh pair together. The two mints are
// independent local constructions; no cross-store transaction is needed.
func (e *Engine) issuePair(username, role string) (TokenPair, error) {
	access, err := e.jwtManager.CreateAccess(username, role)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := e.refreshStore.Mint(username, role)

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    e.config.JWT.AccessTTL.Milliseconds(),
	}, nil
}

// Validate verifies an access token and returns the identity it proves.
// It fails closed with [ErrUnauthorized] on any malformed structure, wrong
// signature, expired exp claim, or blacklisted jti.
func (e *Engine) Validate(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseAccess(tokenStr)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, ErrUnauthorized
	}
	if claims.ID != "" && e.blacklist.Contains(claims.ID) {
		e.metricInc(MetricValidateFailure)
		return nil, ErrUnauthorized
	}

	return &AuthResult{Username: claims.Subject, Role: claims.Role}, nil
}

// Username extracts the subject from a structurally valid, correctly
// signed token. Contract: call only after Validate has succeeded —
// extraction does not re-check expiry or the blacklist.
func (e *Engine) Username(tokenStr string) (string, error) {
	claims, err := e.jwtManager.ExtractClaims(tokenStr)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Role extracts the role claim under the same contract as [Engine.Username].
func (e *Engine) Role(tokenStr string) (string, error) {
	claims, err := e.jwtManager.ExtractClaims(tokenStr)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Role, nil
}

// Blacklist invalidates an access token by storing its jti. Best effort:
// tokens that no longer parse (malformed or already expired) fail
// verification on their own and are silently skipped.
func (e *Engine) Blacklist(tokenStr string) {
	if e == nil || e.jwtManager == nil {
		return
	}

	claims, err := e.jwtManager.ParseAccess(tokenStr)
	if err != nil || claims.ID == "" {
		return
	}

	e.blacklist.Add(claims.ID)
	e.metricInc(MetricTokenBlacklisted)
}

// Logout revokes the refresh token and blacklists the access token's jti.
// Both arguments are optional and the call never fails; absent or
// unparsable tokens are ignored.
func (e *Engine) Logout(ctx context.Context, refreshToken, accessToken string) {
	if e == nil {
		return
	}

	if refreshToken != "" {
		e.refreshStore.Revoke(refreshToken)
	}
	if accessToken != "" {
		e.Blacklist(accessToken)
	}

	e.metricInc(MetricLogout)
}

// LogoutAll revokes every refresh token bound to username ("log out
// everywhere"). Outstanding access tokens are untouched and simply age out.
func (e *Engine) LogoutAll(ctx context.Context, username string) {
	if e == nil {
		return
	}

	e.refreshStore.RevokeAll(username)
	e.metricInc(MetricLogoutAll)
}

// Close stops the reclaimer and waits for an in-flight sweep to finish.
// Close is idempotent. Engine state remains readable after Close; only the
// background eviction stops.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		close(e.done)
		e.wg.Wait()
	})
}
