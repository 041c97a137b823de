package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/negroni"
)

func TestCallRateLimiterMiddleware(t *testing.T) {
	crl := NewCallRateLimiter(0, 1, 2)

	pageCalls := 0
	handler := negroni.New(negroni.NewRecovery(), crl)
	handler.UseHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageCalls++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<!DOCTYPE html>"))
	}))

	codes := []int{}
	bodies := []string{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/epoch/5", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// accepted calls only carry the page, rejected calls never reach it
	assert.Equal(t, "<!DOCTYPE html>", bodies[0])
	assert.Equal(t, "<!DOCTYPE html>", bodies[1])
	assert.True(t, strings.HasPrefix(bodies[2], "Too Many Requests"))
	assert.Equal(t, 2, pageCalls)

	// other visitors have their own budget
	req := httptest.NewRequest(http.MethodGet, "/epoch/5", nil)
	req.RemoteAddr = "10.0.0.2:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCallRateLimiterForwardedFor(t *testing.T) {
	crl := NewCallRateLimiter(1, 1, 1)

	tests := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		expectedIp   string
	}{
		{name: "single proxy", forwardedFor: "203.0.113.7", remoteAddr: "10.0.0.1:1234", expectedIp: "203.0.113.7"},
		{name: "spoofed prefix", forwardedFor: "1.2.3.4, 203.0.113.8", remoteAddr: "10.0.0.1:1234", expectedIp: "203.0.113.8"},
		{name: "no header", forwardedFor: "", remoteAddr: "10.0.0.9:1234", expectedIp: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			assert.NotNil(t, crl.getVisitor(req))
			if tt.expectedIp != "" {
				assert.Contains(t, crl.visitors, tt.expectedIp)
			}
		})
	}
}
