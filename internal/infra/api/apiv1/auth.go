package apiv1

import (
	"net"
	"net/http"

	"activation-admin/internal/domain"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"
	red "activation-admin/internal/infra/redis"
)

// Login checks the operator pair once so the dashboard can keep it for Basic
// auth. Attempts are counted per client IP while a limiter is configured.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	key := red.LoginKey(clientIP(r))
	limiter, err := s.limiter.Get()
	useLimiter := err == nil
	if useLimiter {
		ok, err := limiter.Allow(r.Context(), key, s.attempts, s.window)
		switch {
		case err != nil:
			// Redis being down must not lock the operator out.
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("login rate limiter unavailable")
		case !ok:
			metrics.IncAdminLogin("rate_limited")
			writeError(w, r, s.log, domain.ErrRateLimited)
			return
		}
	}

	if err := s.verifier.Verify(r.Context(), req.Email, req.Password); err != nil {
		metrics.IncAdminLogin("unauthorized")
		logging.With(r.Context(), s.log).Warn().
			Str("ip", clientIP(r)).
			Str("email", logging.Redact(req.Email, s.dev)).
			Msg("rejected admin login")
		writeError(w, r, s.log, err)
		return
	}

	if useLimiter {
		if err := limiter.Reset(r.Context(), key); err != nil {
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("failed to reset login counter")
		}
	}
	metrics.IncAdminLogin("authorized")
	writeJSON(w, http.StatusOK, LoginResponse{Email: req.Email, Authenticated: true})
}

// BasicAuth guards the operator routes and tags the request with the operator.
// Failed checks share the login counter, so a client that used up its attempts
// is refused before its credentials are looked at.
func (s *Server) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		key := red.LoginKey(clientIP(r))
		limiter, lerr := s.limiter.Get()
		if lerr == nil {
			blocked, err := limiter.Blocked(r.Context(), key, s.attempts)
			if err != nil {
				logging.With(r.Context(), s.log).Warn().Err(err).Msg("login rate limiter unavailable")
			} else if blocked {
				metrics.IncAdminLogin("rate_limited")
				writeError(w, r, s.log, domain.ErrRateLimited)
				return
			}
		}

		if err := s.verifier.Verify(r.Context(), user, pass); err != nil {
			metrics.IncAdminLogin("unauthorized")
			logging.With(r.Context(), s.log).Warn().
				Str("ip", clientIP(r)).
				Str("email", logging.Redact(user, s.dev)).
				Msg("rejected basic credentials")
			if lerr == nil {
				if ok, aerr := limiter.Allow(r.Context(), key, s.attempts, s.window); aerr != nil {
					logging.With(r.Context(), s.log).Warn().Err(aerr).Msg("login rate limiter unavailable")
				} else if !ok {
					writeError(w, r, s.log, domain.ErrRateLimited)
					return
				}
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
			writeError(w, r, s.log, err)
			return
		}
		ctx := logging.WithOperator(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
