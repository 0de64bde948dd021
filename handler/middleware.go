package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"commerce-backend/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// claimsFrom returns the verified claims for the request, or nil.
func claimsFrom(r *http.Request) *auth.Claims {
	c, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return c
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	v := r.Header.Get("Authorization")
	if strings.HasPrefix(v, prefix) {
		return v[len(prefix):]
	}
	return ""
}

// authenticate parses the bearer token if present and stores the claims on
// the request context. Invalid tokens are treated as absent.
func (h *Handler) authenticate(r *http.Request) *http.Request {
	tok := bearerToken(r)
	if tok == "" {
		return r
	}
	claims, err := h.tokens.Parse(tok)
	if err != nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
}

// requireAuth is the is-authenticated policy.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = h.authenticate(r)
		if claimsFrom(r) == nil {
			writeErr(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// requireAdmin is the is-admin policy.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = h.authenticate(r)
		claims := claimsFrom(r)
		if claims == nil {
			writeErr(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !claims.Admin {
			writeErr(w, http.StatusForbidden, "admin required")
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument logs every request and feeds the HTTP metrics.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		h.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		h.metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed))
	})
}
