package services

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethpandaops/slotscope/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

type CallRateLimiter struct {
	proxyCount uint
	rateLimit  uint
	burstLimit uint

	mutex    sync.Mutex
	visitors map[string]*callRateVisitor

	visitorsCount prometheus.Gauge
	newVisitors   prometheus.Counter
}

type callRateVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var GlobalCallRateLimiter *CallRateLimiter

// StartCallRateLimiter is used to start the global call rate limiter
func StartCallRateLimiter(proxyCount uint, rateLimit uint, burstLimit uint) error {
	if GlobalCallRateLimiter != nil {
		return nil
	}

	GlobalCallRateLimiter = NewCallRateLimiter(proxyCount, rateLimit, burstLimit)
	go GlobalCallRateLimiter.cleanupVisitors()

	metrics.AddPreCollectFn(func() {
		GlobalCallRateLimiter.mutex.Lock()
		defer GlobalCallRateLimiter.mutex.Unlock()

		GlobalCallRateLimiter.visitorsCount.Set(float64(len(GlobalCallRateLimiter.visitors)))
	})

	return nil
}

var (
	rateLimiterVisitorsMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slotscope_call_rate_limiter_visitors_count",
		Help: "Number of visitors in the call rate limiter",
	})
	rateLimiterNewVisitorsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_call_rate_limiter_new_visitors_count",
		Help: "Number of new visitors in the call rate limiter",
	})
	rateLimiterRejectedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_call_rate_limiter_rejected_count",
		Help: "Number of page calls rejected by the call rate limiter",
	})
)

func NewCallRateLimiter(proxyCount uint, rateLimit uint, burstLimit uint) *CallRateLimiter {
	if burstLimit == 0 {
		burstLimit = 1
	}
	return &CallRateLimiter{
		proxyCount: proxyCount,
		rateLimit:  rateLimit,
		burstLimit: burstLimit,

		visitors: map[string]*callRateVisitor{},

		visitorsCount: rateLimiterVisitorsMetric,
		newVisitors:   rateLimiterNewVisitorsMetric,
	}
}

// ServeHTTP is the negroni middleware entry. Visitors exceeding their call rate get a 429,
// the remaining chain only runs for accepted calls.
func (crl *CallRateLimiter) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if err := crl.CheckCallLimit(r, 1); err != nil {
		rateLimiterRejectedMetric.Inc()
		w.Header().Set("Retry-After", "1")
		http.Error(w, "Too Many Requests: "+err.Error(), http.StatusTooManyRequests)
		return
	}
	next(w, r)
}

func (crl *CallRateLimiter) CheckCallLimit(r *http.Request, callCost uint) error {
	if crl == nil {
		return nil
	}
	visitor := crl.getVisitor(r)
	if visitor == nil {
		return fmt.Errorf("could not get visitor")
	}
	if !visitor.limiter.AllowN(time.Now(), int(callCost)) {
		return fmt.Errorf("call rate limit exceeded")
	}
	return nil
}

func (crl *CallRateLimiter) getVisitor(r *http.Request) *callRateVisitor {
	var ip string

	if crl.proxyCount > 0 {
		forwardIps := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		forwardIdx := len(forwardIps) - int(crl.proxyCount)
		if forwardIdx >= 0 {
			ip = strings.TrimSpace(forwardIps[forwardIdx])
		}
	}
	if ip == "" {
		var err error
		ip, _, err = net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return nil
		}
	}

	crl.mutex.Lock()
	defer crl.mutex.Unlock()

	visitor := crl.visitors[ip]
	if visitor == nil {
		visitor = &callRateVisitor{
			limiter:  rate.NewLimiter(rate.Limit(crl.rateLimit), int(crl.burstLimit)),
			lastSeen: time.Now(),
		}
		crl.visitors[ip] = visitor

		crl.newVisitors.Inc()
	} else {
		visitor.lastSeen = time.Now()
	}
	return visitor
}

func (crl *CallRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		crl.mutex.Lock()
		for ip, v := range crl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(crl.visitors, ip)
			}
		}
		crl.mutex.Unlock()
	}
}
