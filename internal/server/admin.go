package server

import (
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/hexforge/internal/logger"
)

// requireAdmin checks HTTP basic credentials against the configured admin
// user and bcrypt hash. Repeated failures lock the client IP out.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Admin.Enabled() {
			writeError(w, http.StatusForbidden, "admin endpoints are disabled")
			return
		}

		ip := clientIP(r)
		if remaining := s.logins.Locked(ip); remaining > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "too many failed attempts")
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !s.checkAdmin(user, pass) {
			lockout := s.logins.Fail(ip)
			logger.Warning("Admin authentication failed",
				"client_ip", ip,
				"user", user,
				"lockout", lockout)
			w.Header().Set("WWW-Authenticate", `Basic realm="hexforge admin"`)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		s.logins.Succeed(ip)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkAdmin(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.Admin.Username)) == 1
	// bcrypt runs even for a wrong user name
	passOK := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(pass)) == nil
	return userOK && passOK
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	user, _, _ := r.BasicAuth()
	s.gen.Cache().Invalidate()
	logger.Always("Generation cache invalidated by admin", "user", user, "client_ip", clientIP(r))

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "invalidated",
		"cities": len(s.gen.Cities()),
	})
}
