package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/shared"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFn RateLimitKeyFunc
	store limiter.Store
}

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(c *rateLimitConfig) {
		if fn != nil {
			c.keyFn = fn
		}
	}
}

// WithStore swaps the in-process memory store for a shared one.
func WithStore(store limiter.Store) RateLimitOption {
	return func(c *rateLimitConfig) {
		if store != nil {
			c.store = store
		}
	}
}

// RateLimit applies a fixed window limit per authenticated user, falling back
// to the client IP for anonymous requests.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	cfg := rateLimitConfig{keyFn: actorOrIPKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.store == nil {
		cfg.store = memory.NewStore()
	}
	instance := limiter.New(cfg.store, limiter.Rate{Period: window, Limit: int64(limit)})
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(stdlib.KeyGetter(cfg.keyFn)),
		stdlib.WithLimitReachedHandler(limitReached(limit, window)),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Warn("rate limit store failed", "path", r.URL.Path, "err", err)
			api.Fail(w, http.StatusInternalServerError, "Internal server error", nil)
		}),
	)
	return mw.Handler
}

func limitReached(limit int, window time.Duration) stdlib.LimitReachedHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		if reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64); err == nil {
			w.Header().Set("Retry-After", strconv.FormatInt(max(reset-time.Now().Unix(), 1), 10))
		}
		slog.Warn("rate limit exceeded",
			"path", r.URL.Path,
			"method", r.Method,
			"limit", limit,
			"windowSec", int(window.Seconds()),
		)
		api.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
	}
}

// keyedLimiter enforces a limit for one key function inside a composite
// middleware.
type keyedLimiter struct {
	instance *limiter.Limiter
	keyFn    RateLimitKeyFunc
	window   time.Duration
}

func newKeyedLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc) *keyedLimiter {
	return &keyedLimiter{
		instance: limiter.New(memory.NewStore(), limiter.Rate{Period: window, Limit: int64(limit)}),
		keyFn:    keyFn,
		window:   window,
	}
}

func (kl *keyedLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	key := kl.keyFn(r)
	if key == "" {
		key = shared.ClientIP(r)
	}
	lctx, err := kl.instance.Get(r.Context(), key)
	if err != nil {
		slog.Warn("rate limit store failed", "path", r.URL.Path, "err", err)
		return true
	}
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
	if lctx.Reached {
		retry := max(lctx.Reset-time.Now().Unix(), 1)
		w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
		slog.Warn("sensitive rate limit exceeded",
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
			"limit", lctx.Limit,
			"windowSec", int(kl.window.Seconds()),
		)
		api.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
		return false
	}
	return true
}

// SensitiveMutationRateLimit adds tighter limits to credential endpoints and
// to mutations with outsized effects such as approvals and payments.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	mutationLimit := max(baseLimit/2, 1)
	authByIP := newKeyedLimiter(authLimit, window, shared.ClientIP)
	authByEmail := newKeyedLimiter(authLimit, window, AuthEmailOrIPKey("email"))
	sensitiveByActor := newKeyedLimiter(mutationLimit, window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !authByIP.enforce(w, r) {
					return
				}
				if !authByEmail.enforce(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !sensitiveByActor.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return shared.ClientIP(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return shared.ClientIP(r)
}

// extractJSONField peeks at the body and restores it for the next handler.
func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

func sensitiveRateScope(r *http.Request) sensitiveScope {
	if r == nil {
		return sensitiveScopeNone
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
		return sensitiveScopeNone
	}

	path := normalizedAPIPath(r.URL.Path)
	switch path {
	case "/auth/login",
		"/auth/request-reset",
		"/auth/reset",
		"/auth/mfa/setup",
		"/auth/mfa/enable",
		"/auth/mfa/disable",
		"/applications":
		return sensitiveScopeAuth
	case "/tiering/calculate-all",
		"/payments":
		return sensitiveScopeActor
	}

	if strings.HasPrefix(path, "/applications/") && (strings.HasSuffix(path, "/approve") || strings.HasSuffix(path, "/reject")) {
		return sensitiveScopeActor
	}
	if strings.HasPrefix(path, "/tiering/apply/") {
		return sensitiveScopeActor
	}
	if strings.HasPrefix(path, "/payments/") && (method == http.MethodPut || method == http.MethodDelete) {
		return sensitiveScopeActor
	}

	return sensitiveScopeNone
}

func normalizedAPIPath(path string) string {
	cleaned := strings.TrimSpace(path)
	cleaned = strings.TrimPrefix(cleaned, "/api/v1")
	if cleaned == "" {
		return "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		return "/" + cleaned
	}
	return cleaned
}
