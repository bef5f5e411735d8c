// Package resilience guards the snapshot store: a consecutive-failure
// breaker in front of postgres and load collapsing for cache fills.
package resilience

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
)

var ErrCircuitOpen = crerr.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

type BreakerConfig struct {
	Name    string
	Enabled bool
	// Failures in a row that open the breaker.
	Failures int
	// Cooldown before an open breaker admits probes.
	Cooldown time.Duration
	// Probes admitted while half-open; all must succeed to close.
	Probes int
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "store"
	}
	if c.Failures < 1 {
		c.Failures = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 15 * time.Second
	}
	if c.Probes < 1 {
		c.Probes = 2
	}
	return c
}

// Breaker is safe on a nil receiver, which admits every call.
type Breaker struct {
	cfg    BreakerConfig
	logger *logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  int
	passed   int
}

// NewBreaker returns nil when cfg is disabled.
func NewBreaker(cfg BreakerConfig, logger *logging.Logger) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Breaker{cfg: cfg.withDefaults(), logger: logger, now: time.Now}
}

// Execute runs fn if the breaker admits it and records the outcome. A call
// abandoned by its own caller says nothing about the store and is not
// counted.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if b == nil {
		return fn(ctx)
	}
	if err := b.admit(); err != nil {
		return err
	}
	err := fn(ctx)
	switch {
	case err == nil:
		b.settle(true)
	case ctx.Err() != nil && crerr.Is(err, ctx.Err()):
		b.abandon()
	default:
		b.settle(false)
	}
	return err
}

func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.cooledDown() {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.Cooldown
}

func (b *Breaker) admit() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if !b.cooledDown() {
			return crerr.Wrapf(ErrCircuitOpen, "%s", b.cfg.Name)
		}
		b.moveTo(StateHalfOpen)
	}
	if b.state == StateHalfOpen {
		if b.probing >= b.cfg.Probes {
			return crerr.Wrapf(ErrCircuitOpen, "%s probing", b.cfg.Name)
		}
		b.probing++
	}
	return nil
}

func (b *Breaker) settle(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.Failures {
			b.moveTo(StateOpen)
		}
	case StateHalfOpen:
		b.probing = max(b.probing-1, 0)
		if !ok {
			b.moveTo(StateOpen)
			return
		}
		b.passed++
		if b.passed >= b.cfg.Probes && b.probing == 0 {
			b.moveTo(StateClosed)
		}
	case StateOpen:
		if !ok {
			b.openedAt = b.now()
		}
	}
}

func (b *Breaker) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.probing = max(b.probing-1, 0)
	}
}

// moveTo resets the counters of the new state. Caller holds mu.
func (b *Breaker) moveTo(next State) {
	prev := b.state
	b.state = next
	b.failures, b.probing, b.passed = 0, 0, 0
	if next == StateOpen {
		b.openedAt = b.now()
	}
	if prev != next {
		b.logger.Warn("circuit breaker state change", "breaker", b.cfg.Name, "from", prev, "to", next)
	}
}
