package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"github.com/timandy/routine"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/utils"
)

var pageLogger = logrus.StandardLogger().WithField("module", "pagecache")

// FrontendCacheService builds page models, sharing concurrent builds of the same page key.
// Builds are bounded by the page call timeout, models may be cached for a page defined duration.
type FrontendCacheService struct {
	pageCallCounter atomic.Uint64
	tieredCache     *cache.TieredCache
	callTimeout     time.Duration
	disableCache    bool
	processingMutex sync.Mutex
	processingDict  map[string]*FrontendCacheProcessingPage
	callStackMutex  sync.RWMutex
	callStackBuffer []byte

	pageCallCount    *prometheus.CounterVec
	pageCallDuration *prometheus.HistogramVec
	pageCallShared   *prometheus.CounterVec
}

type FrontendCacheProcessingPage struct {
	CallCtx      context.Context
	modelMutex   sync.RWMutex
	pageModel    interface{}
	pageError    error
	PageKey      string
	CacheTimeout time.Duration
}

type PageDataHandlerFn = func(pageCall *FrontendCacheProcessingPage) interface{}

var GlobalFrontendCache *FrontendCacheService

type FrontendCachePageError struct {
	err   error
	name  string
	stack string
}

func (e FrontendCachePageError) Error() string {
	return e.err.Error()
}
func (e FrontendCachePageError) Name() string {
	return e.name
}
func (e FrontendCachePageError) Stack() string {
	return e.stack
}

// StartFrontendCache is used to start the global frontend cache service
func StartFrontendCache() error {
	if GlobalFrontendCache != nil {
		return nil
	}

	cachePrefix := fmt.Sprintf("%sgui-", utils.Config.BeaconApi.RedisCachePrefix)
	tieredCache, err := cache.NewTieredCache(utils.Config.BeaconApi.LocalCacheSize, utils.Config.BeaconApi.RedisCacheAddr, cachePrefix)
	if err != nil {
		return err
	}

	disableCache := utils.Config.Frontend.Debug || utils.Config.Frontend.DisablePageCache
	GlobalFrontendCache = NewFrontendCache(tieredCache, utils.Config.Frontend.PageCallTimeout, disableCache)
	return nil
}

func NewFrontendCache(tieredCache *cache.TieredCache, callTimeout time.Duration, disableCache bool) *FrontendCacheService {
	if callTimeout == 0 {
		callTimeout = 30 * time.Second
	}

	return &FrontendCacheService{
		tieredCache:     tieredCache,
		callTimeout:     callTimeout,
		disableCache:    disableCache,
		processingDict:  make(map[string]*FrontendCacheProcessingPage),
		callStackBuffer: make([]byte, 1024*1024*5),

		pageCallCount:    pageCallCountMetric,
		pageCallDuration: pageCallDurationMetric,
		pageCallShared:   pageCallSharedMetric,
	}
}

var (
	pageCallCountMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotscope_frontend_page_call_count",
		Help: "Number of page calls",
	}, []string{"page"})
	pageCallDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slotscope_frontend_page_call_duration",
		Help:    "Processing time for page calls",
		Buckets: []float64{0, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000},
	}, []string{"page"})
	pageCallSharedMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotscope_frontend_page_call_shared",
		Help: "Number of page calls that joined an in-flight build of the same page",
	}, []string{"page"})
)

// ProcessCachedPage returns the page model for pageKey. The part of the key before the first colon names the page type.
func (fc *FrontendCacheService) ProcessCachedPage(pageKey string, caching bool, returnValue interface{}, buildFn PageDataHandlerFn) (interface{}, error) {
	pageType, _, _ := strings.Cut(pageKey, ":")

	fc.pageCallCount.WithLabelValues(pageType).Inc()

	fc.processingMutex.Lock()
	processingPage := fc.processingDict[pageKey]
	if processingPage != nil {
		fc.processingMutex.Unlock()
		pageLogger.Debugf("page already processing: %v", pageKey)

		fc.pageCallShared.WithLabelValues(pageType).Inc()

		processingPage.modelMutex.RLock()
		defer processingPage.modelMutex.RUnlock()
		return processingPage.pageModel, processingPage.pageError
	}
	processingPage = &FrontendCacheProcessingPage{
		PageKey:      pageKey,
		CacheTimeout: -1,
	}
	fc.processingDict[pageKey] = processingPage
	processingPage.modelMutex.Lock()
	defer fc.completePageLoad(pageKey, processingPage)
	fc.processingMutex.Unlock()

	startTime := time.Now()
	var returnError error
	returnValue, returnError = fc.processPageCall(pageKey, caching && !fc.disableCache, returnValue, buildFn, processingPage)
	processingPage.pageModel = returnValue
	processingPage.pageError = returnError

	duration := time.Since(startTime)
	fc.pageCallDuration.WithLabelValues(pageType).Observe(float64(duration.Milliseconds()))

	return returnValue, returnError
}

func (fc *FrontendCacheService) processPageCall(pageKey string, caching bool, pageData interface{}, buildFn PageDataHandlerFn, pageCall *FrontendCacheProcessingPage) (interface{}, error) {
	// buffered, the build routine must never block after a timeout
	returnChan := make(chan interface{}, 1)
	errorChan := make(chan error, 1)
	var isTimedOut atomic.Bool
	var callGoId atomic.Uint64

	callCtx, callCtxCancel := context.WithCancel(context.Background())
	defer callCtxCancel()
	pageCall.CallCtx = callCtx

	callIdx := fc.pageCallCounter.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				errorChan <- &FrontendCachePageError{
					name:  "page panic",
					err:   fmt.Errorf("page call %v panic: %v", callIdx, err),
					stack: string(debug.Stack()),
				}
			}
		}()

		callGoId.Store(routine.Goid())

		if caching && fc.tieredCache != nil {
			if _, err := fc.tieredCache.Get(pageKey, pageData); err == nil {
				pageLogger.Debugf("page served from cache: %v", pageKey)
				returnChan <- pageData
				return
			}
		}

		pageData = buildFn(pageCall)

		if isTimedOut.Load() {
			return
		}
		if caching && fc.tieredCache != nil && pageCall.CacheTimeout > 0 {
			if err := fc.tieredCache.Set(pageKey, pageData, pageCall.CacheTimeout); err != nil {
				pageLogger.WithError(err).Debugf("could not cache page %v", pageKey)
			}
		}
		returnChan <- pageData
	}()

	select {
	case returnValue := <-returnChan:
		return returnValue, nil
	case returnError := <-errorChan:
		return nil, returnError
	case <-time.After(fc.callTimeout):
		isTimedOut.Store(true)
		callCtxCancel()
		return nil, &FrontendCachePageError{
			name:  "page timeout",
			err:   fmt.Errorf("page call %v timeout", callIdx),
			stack: fc.extractPageCallStack(callGoId.Load()),
		}
	}
}

func (fc *FrontendCacheService) completePageLoad(pageKey string, processingPage *FrontendCacheProcessingPage) {
	processingPage.modelMutex.Unlock()
	fc.processingMutex.Lock()
	delete(fc.processingDict, pageKey)
	fc.processingMutex.Unlock()
}

func (fc *FrontendCacheService) extractPageCallStack(callGoid uint64) string {
	if fc.callStackMutex.TryLock() {
		runtime.Stack(fc.callStackBuffer, true)
		fc.callStackMutex.Unlock()
	}
	fc.callStackMutex.RLock()
	defer fc.callStackMutex.RUnlock()

	scanner := bufio.NewScanner(bytes.NewReader(fc.callStackBuffer))
	stackTrace := []string{}
	isRelevantCall := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "goroutine ") {
			if isRelevantCall {
				break
			}

			isRelevantCall = strings.HasPrefix(line, fmt.Sprintf("goroutine %v ", callGoid))
		}

		if isRelevantCall {
			stackTrace = append(stackTrace, line)
		}
	}

	if !isRelevantCall {
		return "call stack not found"
	}

	return strings.Join(stackTrace, "\n")
}
