package authprobe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trainerhub/app/internal/authstate"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/retry"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status401 struct{}

func (status401) Error() string      { return "unauthorized" }
func (status401) Unauthorized() bool { return true }

// scriptedChecker fails the first failures calls with failErr, then succeeds.
type scriptedChecker struct {
	calls    int32
	failures int32
	failErr  error
	user     authstate.User
	block    chan struct{}
}

func (c *scriptedChecker) Me(ctx context.Context) (*authstate.User, error) {
	n := atomic.AddInt32(&c.calls, 1)
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if n <= c.failures {
		return nil, c.failErr
	}
	u := c.user
	return &u, nil
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestProberAuthenticatesAfterRetries(t *testing.T) {
	checker := &scriptedChecker{failures: 2, failErr: errors.New("connection refused"), user: authstate.User{ID: "t1", Role: "Trainer"}}
	nav := &recordingNavigator{}
	session := authstate.New()
	p := New(checker, nav, session, WithPolicy(fastPolicy(3)))

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, res.State)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "/clients", res.Destination)
	assert.Equal(t, []string{"/clients"}, nav.Paths())
	assert.Equal(t, authstate.Valid, session.Phase())
	assert.Equal(t, "t1", session.User().ID)
}

func TestProberClientLandsOnDashboard(t *testing.T) {
	checker := &scriptedChecker{user: authstate.User{ID: "c1", Role: "Client"}}
	nav := &recordingNavigator{}
	res, err := New(checker, nav, nil, WithPolicy(fastPolicy(3))).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", res.Destination)
}

func TestProberExhaustsWithoutNavigating(t *testing.T) {
	checker := &scriptedChecker{failures: 100, failErr: errors.New("timeout")}
	nav := &recordingNavigator{}
	session := authstate.New()
	policy := fastPolicy(4)
	p := New(checker, nav, session, WithPolicy(policy))

	start := time.Now()
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Unauthenticated, res.State)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, int32(4), atomic.LoadInt32(&checker.calls))
	assert.Empty(t, nav.Paths())
	assert.Equal(t, authstate.Invalid, session.Phase())
	assert.Less(t, time.Since(start), policy.MaxWait()+time.Second)
}

func TestProberStopsOn401(t *testing.T) {
	checker := &scriptedChecker{failures: 100, failErr: status401{}}
	nav := &recordingNavigator{}
	p := New(checker, nav, nil, WithPolicy(fastPolicy(6)))

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, res.State)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, nav.Paths())
}

func TestProberCancelledContext(t *testing.T) {
	checker := &scriptedChecker{block: make(chan struct{}), user: authstate.User{ID: "t1", Role: "Trainer"}}
	nav := &recordingNavigator{}
	session := authstate.New()
	p := New(checker, nav, session, WithPolicy(retry.Patient()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not stop after cancel")
	}
	assert.Equal(t, Unauthenticated, p.State())
	assert.Equal(t, authstate.Invalid, session.Phase())
	assert.Empty(t, nav.Paths())
}

func TestProberNavigatesOnceUnderConcurrency(t *testing.T) {
	checker := &scriptedChecker{failures: 1, failErr: errors.New("flaky"), user: authstate.User{ID: "t1", Role: "Trainer"}}
	nav := &recordingNavigator{}
	p := New(checker, nav, nil, WithPolicy(fastPolicy(3)))

	var wg sync.WaitGroup
	results := make([]Result, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Run(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []string{"/clients"}, nav.Paths())
	assert.Equal(t, int32(2), atomic.LoadInt32(&checker.calls))
	for _, r := range results {
		assert.Equal(t, Authenticated, r.State)
	}

	// A later call reuses the decision.
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, nav.Paths(), 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "checking", Checking.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestProberRecordsOutcomes(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	outcome := func(label string) float64 {
		var metric dto.Metric
		require.NoError(t, m.ProbeOutcomesTotal.WithLabelValues(label).Write(&metric))
		return metric.GetCounter().GetValue()
	}

	ok := &scriptedChecker{user: authstate.User{ID: "t1", Role: "Trainer"}}
	_, err := New(ok, &recordingNavigator{}, nil, WithPolicy(fastPolicy(2)), WithMetrics(m)).Run(context.Background())
	require.NoError(t, err)

	denied := &scriptedChecker{failures: 10, failErr: status401{}}
	_, err = New(denied, &recordingNavigator{}, nil, WithPolicy(fastPolicy(2)), WithMetrics(m)).Run(context.Background())
	require.NoError(t, err)

	down := &scriptedChecker{failures: 10, failErr: errors.New("timeout")}
	_, err = New(down, &recordingNavigator{}, nil, WithPolicy(fastPolicy(2)), WithMetrics(m)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, outcome("authenticated"))
	assert.Equal(t, 1.0, outcome("unauthorized"))
	assert.Equal(t, 1.0, outcome("exhausted"))
}
