package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/revendedor/painel-backend/api/responses"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
	pkgredis "github.com/revendedor/painel-backend/pkg/redis"
)

const (
	idempotencyHeader      = "Idempotency-Key"
	replayHeader           = "Idempotent-Replay"
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

type idempotencyRule struct {
	method   string
	matches  func(path string) bool
	critical bool
}

// Order decisions move stock, so a replayed accept must never decrement twice.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, matches: matchTemplate("/api/v1/orders/{orderId}/accept"), critical: true},
	{method: http.MethodPost, matches: matchTemplate("/api/v1/orders/{orderId}/reject"), critical: true},
	{method: http.MethodPost, matches: matchTemplate("/api/v1/orders/{orderId}/status")},
	{method: http.MethodPost, matches: matchTemplate("/api/v1/inventory")},
	{method: http.MethodPatch, matches: matchPrefix("/api/v1/inventory/")},
	{method: http.MethodPut, matches: matchTemplate("/api/v1/reseller/freight")},
}

// idempotencyRecord is the JSON stored in redis; Body is base64 on the wire.
type idempotencyRecord struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// the mutating routes above. ttl applies to non-critical routes; zero keeps
// the 24h default.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	guard := &replayGuard{store: store, ttl: ttl, logg: logg}
	if guard.ttl <= 0 {
		guard.ttl = defaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := matchRule(r.Method, requestPath(r))
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := guard.serve(w, r, next, rule); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
			}
		})
	}
}

type replayGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// serve returns an error only before next has written anything.
func (g *replayGuard) serve(w http.ResponseWriter, r *http.Request, next http.Handler, rule idempotencyRule) error {
	clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if clientKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not read request")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])
	key := g.store.IdempotencyKey(requestScope(r), clientKey)

	stored, err := g.store.Get(r.Context(), key)
	switch {
	case err != nil && !pkgredis.IsNil(err):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not check request replay")
	case stored != "":
		return replay(w, stored, hash)
	}

	capture := &responseCapture{ResponseWriter: w}
	next.ServeHTTP(capture, r)

	// server failures stay retryable under the same key
	if capture.status >= http.StatusInternalServerError {
		return nil
	}
	g.remember(r, key, rule, idempotencyRecord{
		Status:      capture.statusOrOK(),
		ContentType: capture.Header().Get("Content-Type"),
		Body:        capture.body.Bytes(),
		RequestHash: hash,
	})
	return nil
}

func (g *replayGuard) remember(r *http.Request, key string, rule idempotencyRule, record idempotencyRecord) {
	payload, err := json.Marshal(record)
	if err == nil {
		ttl := g.ttl
		if rule.critical {
			ttl = criticalIdempotencyTTL
		}
		_, err = g.store.SetNX(r.Context(), key, string(payload), ttl)
	}
	if err != nil && g.logg != nil {
		g.logg.Error(r.Context(), "persist idempotency record", err)
	}
}

func replay(w http.ResponseWriter, stored, hash string) error {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not replay request")
	}
	if record.RequestHash != hash {
		return pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body")
	}
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set(replayHeader, "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(record.Body)
	return nil
}

// requestScope keeps keys from colliding across users, resellers and routes.
func requestScope(r *http.Request) string {
	ctx := r.Context()
	return fmt.Sprintf("%d|%d|%s|%s", UserIDFromContext(ctx), ResellerIDFromContext(ctx), r.Method, r.URL.Path)
}

// requestPath is the URL path without a trailing slash. Rules match paths
// rather than chi patterns because group middleware runs before the
// sub-router has resolved the full pattern.
func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func matchRule(method, path string) (idempotencyRule, bool) {
	if path == "" {
		return idempotencyRule{}, false
	}
	for _, rule := range idempotencyRules {
		if rule.method == method && rule.matches(path) {
			return rule, true
		}
	}
	return idempotencyRule{}, false
}

// matchTemplate matches paths segment by segment; a {param} segment matches
// any non-empty value.
func matchTemplate(template string) func(string) bool {
	want := strings.Split(template, "/")
	return func(path string) bool {
		got := strings.Split(path, "/")
		if len(got) != len(want) {
			return false
		}
		for i, segment := range want {
			isParam := strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
			if (isParam && got[i] == "") || (!isParam && got[i] != segment) {
				return false
			}
		}
		return true
	}
}

func matchPrefix(prefix string) func(string) bool {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix)
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
