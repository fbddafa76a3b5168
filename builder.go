package authcore

import (
	"errors"

	"github.com/sgcd-pm/authcore/internal/rate"
	"github.com/sgcd-pm/authcore/internal/stores"
	"github.com/sgcd-pm/authcore/jwt"
	"github.com/sgcd-pm/authcore/password"
)

// Builder assembles an [Engine]. A Builder is single-use: Build may only
// be called once.
type Builder struct {
	config       Config
	userProvider UserProvider
	bcryptCost   int

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithUserProvider sets the credential store the Login flow consults.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithBcryptCost overrides the bcrypt cost used for hash verification
// helpers. Zero keeps the bcrypt default.
func (b *Builder) WithBcryptCost(cost int) *Builder {
	b.bcryptCost = cost
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the token engine, stores, and
// limiter, and starts the reclaimer. The returned Engine is ready for
// concurrent use; callers own its lifecycle and must call [Engine.Close].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret:    []byte(b.config.JWT.Secret),
		AccessTTL: b.config.JWT.AccessTTL,
	})
	if err != nil {
		return nil, err
	}

	passwordHash, err := password.NewBcrypt(b.bcryptCost)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:       b.config,
		jwtManager:   jwtManager,
		refreshStore: stores.NewRefreshStore(b.config.Refresh.TTL),
		blacklist:    stores.NewBlacklist(),
		rateLimiter: rate.New(rate.Config{
			MaxAttempts: b.config.RateLimit.MaxAttempts,
			Window:      b.config.RateLimit.Window,
			Lockout:     b.config.RateLimit.Lockout,
		}),
		passwordHash: passwordHash,
		userProvider: b.userProvider,
		metrics:      NewMetrics(b.config.Metrics),
		done:         make(chan struct{}),
	}

	e.wg.Add(1)
	go e.reclaim()

	b.built = true
	return e, nil
}
