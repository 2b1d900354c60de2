package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/hexforge/internal/config"
)

const (
	defaultMaxFailures = 5
	defaultLockout     = 30 * time.Second
	sweepInterval      = 5 * time.Minute
	// idleRecord is how long an unlocked client with no failures is kept
	idleRecord = 10 * time.Minute
)

// LoginGuard locks client IPs out of the admin endpoints after repeated
// failed logins. Each lockout of the same IP doubles the previous one, up
// to a ceiling.
type LoginGuard struct {
	mu          sync.Mutex
	clients     map[string]*loginRecord
	maxFailures int
	lockout     time.Duration
	ceiling     time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type loginRecord struct {
	failures int
	lockouts int
	until    time.Time
}

// NewLoginGuard creates a guard and starts its sweeper. Call Stop to end it.
func NewLoginGuard(cfg config.RateLimitConfig) *LoginGuard {
	g := &LoginGuard{
		clients:     make(map[string]*loginRecord),
		maxFailures: cfg.MaxAttempts,
		lockout:     time.Duration(cfg.LockoutSeconds) * time.Second,
		ceiling:     time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	if g.maxFailures <= 0 {
		g.maxFailures = defaultMaxFailures
	}
	if g.lockout <= 0 {
		g.lockout = defaultLockout
	}
	if g.ceiling < g.lockout {
		g.ceiling = 10 * g.lockout
	}

	go g.sweepLoop()
	return g
}

// Stop ends the sweeper. It is safe to call more than once.
func (g *LoginGuard) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Locked returns how much longer ip is locked out, or 0.
func (g *LoginGuard) Locked(ip string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rec, ok := g.clients[ip]; ok {
		if remaining := rec.until.Sub(g.now()); remaining > 0 {
			return remaining
		}
	}
	return 0
}

// Fail records a failed login from ip and returns the lockout it started,
// or 0 when the IP may keep trying.
func (g *LoginGuard) Fail(ip string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.clients[ip]
	if !ok {
		rec = &loginRecord{}
		g.clients[ip] = rec
	}
	now := g.now()
	if remaining := rec.until.Sub(now); remaining > 0 {
		return remaining
	}

	if rec.failures++; rec.failures < g.maxFailures {
		return 0
	}
	rec.failures = 0
	rec.lockouts++
	d := g.backoff(rec.lockouts)
	rec.until = now.Add(d)
	return d
}

// Succeed forgets the failure history of ip.
func (g *LoginGuard) Succeed(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, ip)
}

// backoff returns the length of the nth lockout.
func (g *LoginGuard) backoff(n int) time.Duration {
	d := g.lockout
	for i := 1; i < n; i++ {
		if d >= g.ceiling/2 {
			return g.ceiling
		}
		d *= 2
	}
	return min(d, g.ceiling)
}

func (g *LoginGuard) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

// sweep drops clients with no pending failures whose last lockout ended
// more than idleRecord ago.
func (g *LoginGuard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-idleRecord)
	for ip, rec := range g.clients {
		if rec.failures == 0 && rec.until.Before(cutoff) {
			delete(g.clients, ip)
		}
	}
}
