package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgcd-pm/authcore/password"
)

type stubProvider struct {
	users map[string]UserRecord
}

func (p *stubProvider) GetUserByIdentifier(identifier string) (UserRecord, error) {
	user, ok := p.users[identifier]
	if !ok {
		return UserRecord{}, errors.New("user not found")
	}
	return user, nil
}

func newTestProvider(t *testing.T) *stubProvider {
	t.Helper()

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt init failed: %v", err)
	}

	aliceHash, err := hasher.Hash("correct-password-123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	bobHash, err := hasher.Hash("hunter2-hunter2")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	return &stubProvider{users: map[string]UserRecord{
		"alice": {Username: "alice", PasswordHash: aliceHash, Role: "DEVELOPER"},
		"bob":   {Username: "bob", PasswordHash: bobHash, Role: "MANAGER"},
	}}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithUserProvider(newTestProvider(t)).
		WithBcryptCost(bcrypt.MinCost).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestLoginIssuesValidatablePair(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("incomplete token pair")
	}
	if pair.ExpiresIn != time.Hour.Milliseconds() {
		t.Errorf("ExpiresIn = %d, want %d", pair.ExpiresIn, time.Hour.Milliseconds())
	}

	result, err := engine.Validate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if result.Username != "alice" || result.Role != "DEVELOPER" {
		t.Fatalf("result = %+v, want alice/DEVELOPER", result)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := engine.Login(ctx, "mallory", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRateLimitsPerAddress(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	throttled := WithClientIP(context.Background(), "203.0.113.7")

	for i := 0; i < 5; i++ {
		if _, err := engine.Login(throttled, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// Correct credentials do not help a locked address.
	if _, err := engine.Login(throttled, "alice", "correct-password-123"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("locked address: err = %v, want ErrLoginRateLimited", err)
	}

	// Other addresses and address-less callers are unaffected.
	other := WithClientIP(context.Background(), "203.0.113.8")
	if _, err := engine.Login(other, "alice", "correct-password-123"); err != nil {
		t.Fatalf("unrelated address denied: %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice", "correct-password-123"); err != nil {
		t.Fatalf("address-less login denied: %v", err)
	}
}

func TestLoginSuccessResetsLimiter(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	for i := 0; i < 4; i++ {
		if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if _, err := engine.Login(ctx, "alice", "correct-password-123"); err != nil {
		t.Fatalf("login within budget failed: %v", err)
	}

	// Counter restarted: four more failures stay inside the fresh budget.
	for i := 0; i < 4; i++ {
		if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("post-reset attempt %d: %v", i+1, err)
		}
	}
	if _, err := engine.Login(ctx, "alice", "correct-password-123"); err != nil {
		t.Fatalf("login after reset denied: %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	rotated, err := engine.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("rotation reissued the presented refresh token")
	}

	// The presented token is single-use.
	if _, err := engine.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("rotated token redeemed again: err = %v", err)
	}

	// The replacement carries the same identity and works.
	result, err := engine.Validate(ctx, rotated.AccessToken)
	if err != nil {
		t.Fatalf("Validate of rotated access token failed: %v", err)
	}
	if result.Username != "alice" || result.Role != "DEVELOPER" {
		t.Fatalf("rotated identity = %+v", result)
	}
	if _, err := engine.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("replacement refresh token rejected: %v", err)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())

	if _, err := engine.Refresh(context.Background(), "no-such-token"); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("err = %v, want ErrRefreshInvalid", err)
	}
	if _, err := engine.Refresh(context.Background(), ""); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("empty token: err = %v, want ErrRefreshInvalid", err)
	}
}

func TestLogoutRevokesAndBlacklists(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	pair, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	engine.Logout(ctx, pair.RefreshToken, pair.AccessToken)

	// The access token is signed, unexpired, and still rejected.
	if _, err := engine.Validate(ctx, pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("blacklisted token: err = %v, want ErrUnauthorized", err)
	}
	if _, err := engine.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("revoked refresh token: err = %v, want ErrRefreshInvalid", err)
	}
}

func TestLogoutNeverFails(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	engine.Logout(ctx, "", "")
	engine.Logout(ctx, "unknown-refresh", "garbage-access-token")

	// Logging out the same pair twice is harmless.
	pair, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	engine.Logout(ctx, pair.RefreshToken, pair.AccessToken)
	engine.Logout(ctx, pair.RefreshToken, pair.AccessToken)
}

func TestLogoutAllIsScopedToUsername(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	alice1, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	alice2, err := engine.Login(ctx, "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	bob, err := engine.Login(ctx, "bob", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	engine.LogoutAll(ctx, "alice")

	if _, err := engine.Refresh(ctx, alice1.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Error("alice session 1 survived LogoutAll")
	}
	if _, err := engine.Refresh(ctx, alice2.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Error("alice session 2 survived LogoutAll")
	}
	if _, err := engine.Refresh(ctx, bob.RefreshToken); err != nil {
		t.Errorf("bob's session revoked by alice's LogoutAll: %v", err)
	}
}

func TestValidateFailsClosed(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	for _, token := range []string{"", "garbage", "a.b.c", "ey.ey.ey"} {
		if _, err := engine.Validate(ctx, token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: err = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestUsernameRoleExtraction(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	ctx := context.Background()

	pair, err := engine.Login(ctx, "bob", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	username, err := engine.Username(pair.AccessToken)
	if err != nil || username != "bob" {
		t.Fatalf("Username = %q, %v; want bob", username, err)
	}
	role, err := engine.Role(pair.AccessToken)
	if err != nil || role != "MANAGER" {
		t.Fatalf("Role = %q, %v; want MANAGER", role, err)
	}

	if _, err := engine.Username("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestMetricsCountFlows(t *testing.T) {
	cfg := validTestConfig()
	cfg.Metrics.Enabled = true
	engine := newTestEngine(t, cfg)
	ctx := context.Background()

	if _, err := engine.Login(ctx, "alice", "correct-password-123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected credential failure, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Errorf("login success counter = %d, want 1", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Errorf("login failure counter = %d, want 1", snap.Counters[MetricLoginFailure])
	}
}

func TestReclaimerSweepsBackgroundState(t *testing.T) {
	cfg := validTestConfig()
	cfg.JWT.AccessTTL = 50 * time.Millisecond
	cfg.Refresh.TTL = 10 * time.Millisecond
	cfg.RateLimit.Window = 10 * time.Millisecond
	cfg.Reclaimer.TokenSweepInterval = 60 * time.Millisecond
	cfg.Reclaimer.LimiterSweepInterval = 20 * time.Millisecond
	engine := newTestEngine(t, cfg)

	if _, err := engine.Login(context.Background(), "alice", "correct-password-123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.Login(WithClientIP(context.Background(), "203.0.113.1"), "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected credential failure, got %v", err)
	}
	engine.blacklist.Add("stale-jti")

	time.Sleep(250 * time.Millisecond)

	if got := engine.refreshStore.Len(); got != 0 {
		t.Errorf("refresh store holds %d records after sweep, want 0", got)
	}
	if got := engine.rateLimiter.Len(); got != 0 {
		t.Errorf("limiter holds %d records after sweep, want 0", got)
	}
	if got := engine.blacklist.Len(); got != 0 {
		t.Errorf("blacklist holds %d jtis after sweep, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	engine := newTestEngine(t, validTestConfig())
	engine.Close()
	engine.Close()
}

func TestBuilderValidation(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Error("build without provider or secret succeeded")
	}

	cfg := validTestConfig()
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Error("build without provider succeeded")
	}

	bad := validTestConfig()
	bad.JWT.Secret = ""
	if _, err := New().WithConfig(bad).WithUserProvider(newTestProvider(t)).Build(); err == nil {
		t.Error("build without secret succeeded")
	}

	b := New().WithConfig(cfg).WithUserProvider(newTestProvider(t))
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	if _, err := b.Build(); err == nil {
		t.Error("builder reuse succeeded")
	}
}
