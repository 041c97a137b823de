package metrics

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Metrics struct {
	mutex         sync.Mutex
	preCollectFns []func()
}

// MetricsHandler runs the registered pre-collect functions at most once per second before serving the prometheus handler.
type MetricsHandler struct {
	handler         http.Handler
	collectMutex    sync.Mutex
	lastCollectTime time.Time
}

var metrics = &Metrics{
	preCollectFns: []func(){},
}

// AddPreCollectFn registers fn to refresh gauges right before they are scraped
func AddPreCollectFn(fn func()) {
	metrics.mutex.Lock()
	defer metrics.mutex.Unlock()
	metrics.preCollectFns = append(metrics.preCollectFns, fn)
}

func runPreCollectFns() {
	metrics.mutex.Lock()
	fns := make([]func(), len(metrics.preCollectFns))
	copy(fns, metrics.preCollectFns)
	metrics.mutex.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func StartMetricsServer(logger logrus.FieldLogger, host string, port string) error {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           GetMetricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		logger.Infof("metrics server listening on %v", srv.Addr)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving metrics")
		}
	}()

	return nil
}

func GetMetricsHandler() http.Handler {
	return &MetricsHandler{
		handler: promhttp.Handler(),
	}
}

func (mh *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mh.collectMutex.Lock()
	if time.Since(mh.lastCollectTime) > 1*time.Second {
		runPreCollectFns()
		mh.lastCollectTime = time.Now()
	}
	mh.collectMutex.Unlock()

	mh.handler.ServeHTTP(w, r)
}
