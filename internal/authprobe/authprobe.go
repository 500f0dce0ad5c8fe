// Package authprobe re-confirms a session after a page has loaded by asking
// the server who the caller is, then makes a single navigation decision.
package authprobe

import (
	"context"
	"errors"
	"sync"
	"time"

	"trainerhub/app/internal/authstate"
	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/retry"

	"go.uber.org/zap"
)

// State of a probe. A prober moves Unchecked -> Checking -> Authenticated or
// Unauthenticated exactly once.
type State int

const (
	Unchecked State = iota
	Checking
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Checker calls the session status endpoint.
type Checker interface {
	Me(ctx context.Context) (*authstate.User, error)
}

// Navigator moves the caller to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// unauthorized is implemented by errors that carry a definitive "no session"
// answer from the server, such as an HTTP 401.
type unauthorized interface {
	Unauthorized() bool
}

func isDefinitiveNo(err error) bool {
	var u unauthorized
	return errors.As(err, &u) && u.Unauthorized()
}

// Result is the probe's terminal decision.
type Result struct {
	State       State
	User        *authstate.User
	Destination string // empty unless the probe navigated
	Attempts    int
	Elapsed     time.Duration
}

// Prober is one-shot: build one per page load.
type Prober struct {
	checker Checker
	nav     Navigator
	session *authstate.Session
	policy  retry.Policy
	metrics *metrics.Metrics
	logger  *zap.Logger

	once   sync.Once
	mu     sync.RWMutex
	state  State
	result Result
	err    error
}

// Option configures a Prober.
type Option func(*Prober)

func WithPolicy(p retry.Policy) Option { return func(pr *Prober) { pr.policy = p } }

func WithMetrics(m *metrics.Metrics) Option { return func(pr *Prober) { pr.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(pr *Prober) { pr.logger = l } }

// New builds a prober with the Standard retry policy unless overridden.
func New(checker Checker, nav Navigator, session *authstate.Session, opts ...Option) *Prober {
	p := &Prober{
		checker: checker,
		nav:     nav,
		session: session,
		policy:  retry.Standard(),
		metrics: metrics.Nop(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.session == nil {
		p.session = authstate.New()
	}
	return p
}

// State reports the current probe state.
func (p *Prober) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Run probes the session once. Concurrent and repeated calls wait for and
// share the first call's decision. If ctx ends first the probe is abandoned
// without navigating and ctx.Err() is returned.
func (p *Prober) Run(ctx context.Context) (Result, error) {
	p.once.Do(func() {
		p.setState(Checking)
		res, err := p.probe(ctx)

		p.mu.Lock()
		p.state = res.State
		p.result = res
		p.err = err
		p.mu.Unlock()

		// Navigation happens only here, inside the once.
		if res.Destination != "" && p.nav != nil {
			p.nav.Navigate(res.Destination)
		}
	})

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result, p.err
}

func (p *Prober) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Prober) probe(ctx context.Context) (Result, error) {
	start := time.Now()
	gen := p.session.BeginLoad()

	var (
		attempts int
		user     *authstate.User
	)
	err := retry.Do(ctx, p.policy, func(ctx context.Context) error {
		attempts++
		u, err := p.checker.Me(ctx)
		if err != nil {
			if isDefinitiveNo(err) {
				return retry.Permanent(err)
			}
			p.logger.Debug("Session probe attempt failed", zap.Int("attempt", attempts), zap.Error(err))
			return err
		}
		user = u
		return nil
	})

	res := Result{Attempts: attempts, Elapsed: time.Since(start), State: Unauthenticated}
	p.metrics.ProbeAttempts.Observe(float64(attempts))

	if ctxErr := ctx.Err(); ctxErr != nil {
		p.session.Fail(gen)
		p.metrics.ProbeOutcomesTotal.WithLabelValues("cancelled").Inc()
		p.logger.Debug("Session probe abandoned", zap.Int("attempts", attempts))
		return res, ctxErr
	}

	if err != nil || user == nil {
		p.session.Fail(gen)
		outcome := "exhausted"
		if isDefinitiveNo(err) {
			outcome = "unauthorized"
		}
		p.metrics.ProbeOutcomesTotal.WithLabelValues(outcome).Inc()
		p.logger.Debug("Session probe unauthenticated",
			zap.String("outcome", outcome),
			zap.Int("attempts", attempts),
			zap.Error(err))
		// Failing open: the caller renders public content.
		return res, nil
	}

	if !p.session.Resolve(gen, *user, "") {
		// Signed out while probing.
		p.metrics.ProbeOutcomesTotal.WithLabelValues("superseded").Inc()
		return res, nil
	}

	res.State = Authenticated
	res.User = user
	res.Destination = domain.Role(user.Role).HomePath()
	p.metrics.ProbeOutcomesTotal.WithLabelValues("authenticated").Inc()
	p.logger.Debug("Session probe authenticated",
		zap.String("user_id", user.ID),
		zap.Int("attempts", attempts),
		zap.String("destination", res.Destination))
	return res, nil
}
