package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethpandaops/slotscope/services"
)

func TestMiddlewareChainWithRateLimiter(t *testing.T) {
	routerCalls := 0
	router := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routerCalls++
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><title>Faucets</title>"))
	})

	chain := newMiddlewareChain(router, services.NewCallRateLimiter(0, 1, 1))

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "within limit", status: http.StatusOK, body: "<!DOCTYPE html><title>Faucets</title>"},
		{name: "over limit", status: http.StatusTooManyRequests, body: "Too Many Requests: call rate limit exceeded\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/faucets", nil)
			req.RemoteAddr = "192.0.2.10:5000"
			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
	assert.Equal(t, 1, routerCalls)
}

func TestMiddlewareChainRecoversPanics(t *testing.T) {
	chain := newMiddlewareChain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("route variable missing")
	}), nil)

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slot/1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
