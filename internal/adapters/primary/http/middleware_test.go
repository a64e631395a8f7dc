package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/logging"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.NewFromZap(zap.New(core), false)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test response"))
	})

	wrapped := createLoggingMiddleware(handler, logger)

	req := httptest.NewRequest("POST", "/api/presentations/generate", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "POST /api/presentations/generate - 201 13 bytes")
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("normal response"))
		})

		wrapped := createRecoveryMiddleware(handler, logging.NewNop())

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("panic recovery", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		wrapped := createRecoveryMiddleware(handler, logging.NewNop())

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		assert.NotPanics(t, func() { wrapped.ServeHTTP(w, req) })
		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
		assert.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	headers := w.Result().Header
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Contains(t, headers.Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allows up to the limit per window", func(t *testing.T) {
		rl := newRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.isAllowed("10.0.0.1", now.Add(time.Duration(i)*time.Second)))
		}
		assert.False(t, rl.isAllowed("10.0.0.1", now.Add(3*time.Second)))

		// other clients are tracked separately
		assert.True(t, rl.isAllowed("10.0.0.2", now.Add(3*time.Second)))

		// the window slides
		assert.True(t, rl.isAllowed("10.0.0.1", now.Add(61*time.Second)))
	})

	t.Run("prune drops idle clients", func(t *testing.T) {
		rl := newRateLimiter(3, time.Minute)
		rl.isAllowed("10.0.0.1", now)
		rl.isAllowed("10.0.0.2", now.Add(10*time.Minute))

		rl.prune(now.Add(10 * time.Minute))

		assert.Len(t, rl.clients, 1)
		assert.Contains(t, rl.clients, "10.0.0.2")
	})

	t.Run("middleware answers 429", func(t *testing.T) {
		rl := newRateLimiter(1, time.Minute)
		handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded for list", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "192.0.2.1:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.1:1234", "198.51.100.7"},
		{"garbage header ignored", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	wrapped := &responseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}

	t.Run("write header", func(t *testing.T) {
		wrapped.WriteHeader(http.StatusCreated)
		assert.Equal(t, http.StatusCreated, wrapped.status)
	})

	t.Run("multiple writes", func(t *testing.T) {
		n1, err := wrapped.Write([]byte("first "))
		assert.NoError(t, err)
		assert.Equal(t, 6, n1)

		n2, err := wrapped.Write([]byte("second"))
		assert.NoError(t, err)
		assert.Equal(t, 6, n2)

		assert.Equal(t, 12, wrapped.size)
	})

	t.Run("hijack unsupported by recorder", func(t *testing.T) {
		_, _, err := wrapped.Hijack()
		assert.ErrorIs(t, err, http.ErrNotSupported)
	})
}
