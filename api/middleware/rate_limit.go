package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/feastly-app/feastly-backend/api/responses"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

type limiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// WriteRateLimitPolicy defines the throttling parameters for mutating requests.
type WriteRateLimitPolicy struct {
	name          string
	window        time.Duration
	customerLimit int
	ipLimit       int
}

// NewWriteRateLimitPolicy builds a policy with the supplied window and limits.
func NewWriteRateLimitPolicy(name string, window time.Duration, customerLimit, ipLimit int) WriteRateLimitPolicy {
	return WriteRateLimitPolicy{
		name:          strings.ToLower(strings.TrimSpace(name)),
		window:        window,
		customerLimit: customerLimit,
		ipLimit:       ipLimit,
	}
}

func (p WriteRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.customerLimit > 0 || p.ipLimit > 0)
}

func (p WriteRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "writes"
	}
	return p.name
}

func (p WriteRateLimitPolicy) customerScope(customerID string) string {
	if customerID == "" {
		return ""
	}
	return p.normalizedName() + ":customer:" + customerID
}

func (p WriteRateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return p.normalizedName() + ":ip:" + ip
}

// WriteRateLimit enforces per-customer and per-IP counters on mutating methods.
// Reads pass through untouched.
func WriteRateLimit(policy WriteRateLimitPolicy, store limiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			if policy.customerLimit > 0 {
				if scope := policy.customerScope(CustomerIDFromContext(ctx)); scope != "" {
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(policy.customerLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "customer", count, policy.customerLimit)
						return
					}
				}
			}

			if policy.ipLimit > 0 {
				if scope := policy.ipScope(clientIP(r)); scope != "" {
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(policy.ipLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "ip", count, policy.ipLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy WriteRateLimitPolicy, scope string, count int64, limit int) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "rate_limit.blocked")
	}
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
