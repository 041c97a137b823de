package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/clients/consensus/rpc"
)

func TestConnectionStatusUnreachableBeacon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	srv.Close()

	client := rpc.NewBeaconClient("test", srv.URL, nil, 200*time.Millisecond)
	beaconService := NewBeaconService(client, NewFetchCache(client.FetchJSON, cache.NewTieredCacheWithRemote(1, nil), time.Second), mainnetSpec)
	executionService := NewExecutionService(&fakeExecutionClient{latest: 5})

	cs := NewConnectionStatusService(beaconService, executionService, time.Minute)
	cs.Refresh(context.Background())

	status := cs.GetStatus()
	assert.True(t, status.Beacon.Configured)
	assert.False(t, status.Beacon.Connected)
	assert.NotEmpty(t, status.Beacon.Error)

	assert.True(t, status.Execution.Connected)
	assert.Equal(t, "erigon/2.60.0/linux-amd64/go1.22.5", status.Execution.Version)
}

func TestConnectionStatusUnconfigured(t *testing.T) {
	cs := NewConnectionStatusService(NewBeaconService(nil, nil, mainnetSpec), NewExecutionService(nil), 0)
	cs.Refresh(context.Background())

	status := cs.GetStatus()
	assert.False(t, status.Beacon.Configured)
	assert.False(t, status.Execution.Configured)
}
