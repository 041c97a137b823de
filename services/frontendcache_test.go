package services

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timandy/routine"

	"github.com/ethpandaops/slotscope/cache"
)

type testPageModel struct {
	Title string `json:"title"`
}

func TestFrontendCacheSharesBuilds(t *testing.T) {
	fc := NewFrontendCache(nil, time.Second, true)

	var builds atomic.Int32
	release := make(chan struct{})
	buildFn := func(pageCall *FrontendCacheProcessingPage) interface{} {
		builds.Add(1)
		<-release
		return &testPageModel{Title: "Epoch #5"}
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = fc.ProcessCachedPage("epoch:5", true, &testPageModel{}, buildFn)
		}(i)
	}

	require.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)
	// give the remaining callers time to join the in-flight build
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, result := range results {
		require.NotNil(t, result)
		assert.Equal(t, "Epoch #5", result.(*testPageModel).Title)
	}
	assert.LessOrEqual(t, builds.Load(), int32(4))
	assert.GreaterOrEqual(t, builds.Load(), int32(1))
}

func TestFrontendCacheStoresModel(t *testing.T) {
	fc := NewFrontendCache(cache.NewTieredCacheWithRemote(1, nil), time.Second, false)

	var builds atomic.Int32
	buildFn := func(pageCall *FrontendCacheProcessingPage) interface{} {
		builds.Add(1)
		pageCall.CacheTimeout = time.Minute
		return &testPageModel{Title: "Slot #200"}
	}

	for i := 0; i < 3; i++ {
		result, err := fc.ProcessCachedPage("slot:200", true, &testPageModel{}, buildFn)
		require.NoError(t, err)
		assert.Equal(t, "Slot #200", result.(*testPageModel).Title)
	}
	assert.Equal(t, int32(1), builds.Load())
}

func TestFrontendCacheTimeout(t *testing.T) {
	fc := NewFrontendCache(nil, 50*time.Millisecond, true)

	release := make(chan struct{})
	defer close(release)

	var buildGoid atomic.Uint64
	_, err := fc.ProcessCachedPage("validator:1", false, &testPageModel{}, func(pageCall *FrontendCacheProcessingPage) interface{} {
		buildGoid.Store(routine.Goid())
		<-release
		return &testPageModel{}
	})

	require.Error(t, err)
	pageErr, ok := err.(*FrontendCachePageError)
	require.True(t, ok)
	assert.Equal(t, "page timeout", pageErr.Name())

	// the stack of the blocked build routine is captured
	require.NotZero(t, buildGoid.Load())
	assert.True(t, strings.HasPrefix(pageErr.Stack(), fmt.Sprintf("goroutine %v ", buildGoid.Load())), pageErr.Stack())
}

func TestFrontendCachePanic(t *testing.T) {
	fc := NewFrontendCache(nil, time.Second, true)

	_, err := fc.ProcessCachedPage("block:1", false, &testPageModel{}, func(pageCall *FrontendCacheProcessingPage) interface{} {
		panic("unexpected")
	})

	require.Error(t, err)
	pageErr, ok := err.(*FrontendCachePageError)
	require.True(t, ok)
	assert.Equal(t, "page panic", pageErr.Name())
	assert.Contains(t, pageErr.Error(), "unexpected")
}
