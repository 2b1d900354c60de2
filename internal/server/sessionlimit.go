package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/hexforge/internal/config"
)

// ErrSessionLimit is returned when a websocket session would exceed the
// per-IP or total session limit.
var ErrSessionLimit = errors.New("session limit reached")

// SessionStats is a snapshot of the open websocket sessions.
type SessionStats struct {
	Open      int `json:"open"`
	ClientIPs int `json:"client_ips"`
}

// SessionLimiter caps concurrent websocket sessions per client IP and in
// total. A zero limit means unlimited.
type SessionLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	open     int
	maxPerIP int
	maxTotal int
}

func NewSessionLimiter(cfg config.ConnectionsConfig) *SessionLimiter {
	return &SessionLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire reserves a session slot for ip. The returned release frees the
// slot; calls after the first do nothing.
func (l *SessionLimiter) Acquire(ip string) (release func(), err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.open >= l.maxTotal {
		return nil, fmt.Errorf("%w: %d sessions open", ErrSessionLimit, l.open)
	}
	if l.maxPerIP > 0 && l.perIP[ip] >= l.maxPerIP {
		return nil, fmt.Errorf("%w: %d sessions open from %s", ErrSessionLimit, l.perIP[ip], ip)
	}
	l.perIP[ip]++
	l.open++

	var once sync.Once
	return func() { once.Do(func() { l.release(ip) }) }, nil
}

func (l *SessionLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.perIP[ip]--; l.perIP[ip] <= 0 {
		delete(l.perIP, ip)
	}
	l.open--
}

func (l *SessionLimiter) Stats() SessionStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return SessionStats{Open: l.open, ClientIPs: len(l.perIP)}
}

// clientIP returns the address a request is accounted to: the first
// X-Forwarded-For entry, then X-Real-IP, then the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
