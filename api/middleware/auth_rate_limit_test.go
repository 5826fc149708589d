package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (f *fakeCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", bytes.NewBufferString(body))
	req.RemoteAddr = "203.0.113.9:51334"
	return req
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 3, 3)
	handler := AuthRateLimit(policy, store, testAuthLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest(`{"email":"meera@example.com"}`))
		assert.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestAuthRateLimitBlocksOverIPLimit(t *testing.T) {
	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, testAuthLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last int
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest(`{"email":"meera@example.com"}`))
		last = resp.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestAuthRateLimitBlocksOverEmailLimit(t *testing.T) {
	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 1)
	handler := AuthRateLimit(policy, store, testAuthLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginRequest(`{"email":"Meera@Example.com"}`))
	assert.Equal(t, http.StatusOK, first.Code)

	// Same address after normalization counts against the same bucket.
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginRequest(`{"email":"meera@example.com"}`))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, testAuthLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, loginRequest(`{"email":"meera@example.com"}`))
	assert.Equal(t, http.StatusOK, resp.Code)
}
