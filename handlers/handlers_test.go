package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/clients/consensus/rpc"
	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/types"
	"github.com/ethpandaops/slotscope/utils"
)

const testGenesis = `{"data":{"genesis_time":"1606824023","genesis_validators_root":"0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95","genesis_fork_version":"0x00000000"}}`

const testSlotBlock = `{"version":"phase0","execution_optimistic":false,"finalized":true,"data":{"message":{"slot":"200","proposer_index":"17","parent_root":"0x01","state_root":"0x02","body":{"randao_reveal":"0x03","eth1_data":{"deposit_root":"0x04","deposit_count":"0","block_hash":"0x05"},"graffiti":"0x00","proposer_slashings":[],"attester_slashings":[],"attestations":[` +
	`{"aggregation_bits":"0x0f","signature":"0x06","data":{"slot":"199","index":"0","beacon_block_root":"0x07","source":{"epoch":"5","root":"0x08"},"target":{"epoch":"6","root":"0x09"}}},` +
	`{"aggregation_bits":"0x0b","signature":"0x06","data":{"slot":"199","index":"1","beacon_block_root":"0x07","source":{"epoch":"5","root":"0x08"},"target":{"epoch":"6","root":"0x09"}}},` +
	`{"aggregation_bits":"0x09","signature":"0x06","data":{"slot":"198","index":"0","beacon_block_root":"0x07","source":{"epoch":"5","root":"0x08"},"target":{"epoch":"6","root":"0x09"}}}` +
	`],"deposits":[],"voluntary_exits":[]}},"signature":"0x0a"}}`

type testBeaconNode struct {
	mutex     sync.Mutex
	responses map[string]string
}

func (n *testBeaconNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mutex.Lock()
	body, found := n.responses[r.URL.RequestURI()]
	n.mutex.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"message":"not found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func setupTestServices(t *testing.T, responses map[string]string) {
	utils.Config = &types.Config{}
	utils.Config.Frontend.SiteName = "Slotscope"
	utils.Config.Chain.Config.SlotsPerEpoch = 32
	utils.Config.Chain.Config.SecondsPerSlot = 12

	srv := httptest.NewServer(&testBeaconNode{responses: responses})
	t.Cleanup(srv.Close)

	client := rpc.NewBeaconClient("test", srv.URL, nil, time.Second)
	fetchCache := services.NewFetchCache(client.FetchJSON, cache.NewTieredCacheWithRemote(1, nil), time.Second)
	services.GlobalBeaconService = services.NewBeaconService(client, fetchCache, utils.ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12})
	services.GlobalExecutionService = services.NewExecutionService(nil)
	services.GlobalFrontendCache = services.NewFrontendCache(nil, 5*time.Second, true)

	t.Cleanup(func() {
		services.GlobalBeaconService = nil
		services.GlobalExecutionService = nil
		services.GlobalFrontendCache = nil
	})
}

func newTestRouter() http.Handler {
	router := NewRouter()
	HandleNotFound(router, nil)
	return router
}

func doRequest(t *testing.T, handler http.Handler, path string) (int, string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestRouterDispatch(t *testing.T) {
	setupTestServices(t, map[string]string{
		"/eth/v1/beacon/genesis": testGenesis,
	})
	router := newTestRouter()

	tests := []struct {
		path   string
		status int
	}{
		{path: "/faucets", status: http.StatusOK},
		{path: "/faucets/extra", status: http.StatusOK},
		{path: "/epoch/abc", status: http.StatusNotFound},
		{path: "/epoch/576460752303423488", status: http.StatusNotFound},
		{path: "/epoch/18446744073709551615", status: http.StatusNotFound},
		{path: "/slot/-1", status: http.StatusNotFound},
		{path: "/validator/0x12", status: http.StatusNotFound},
		{path: "/block/0x1234", status: http.StatusNotFound},
		{path: "/address/nope", status: http.StatusNotFound},
		{path: "/special/london?mode=unknown", status: http.StatusNotFound},
		{path: "/does/not/exist", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := doRequest(t, router, tt.path)
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusNotFound {
				assert.Contains(t, body, "<title>Not Found | Slotscope</title>")
			}
		})
	}
}

func TestRouterMatchesInDeclarationOrder(t *testing.T) {
	router := NewRouter()

	tests := []struct {
		path  string
		route string
	}{
		{path: "/", route: "index"},
		{path: "/block/123", route: "block"},
		{path: "/block/123/txs", route: "block-txs"},
		{path: "/slot/200", route: "slot"},
		{path: "/slot/200/attestations", route: "slot-sub"},
		{path: "/slot/200/attestations/x", route: "slot-sub"},
		{path: "/slot/200/foo", route: "slot-sub"},
		{path: "/epoch/5", route: "epoch"},
		{path: "/epoch/5/slots", route: "epoch-sub"},
		{path: "/tx/0xab/logs", route: "tx-sub"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var match mux.RouteMatch
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			require.True(t, router.Match(req, &match))
			require.NotNil(t, match.Route)
			assert.Equal(t, tt.route, match.Route.GetName())
		})
	}
}

func TestEpochPageListsSlotsDescending(t *testing.T) {
	setupTestServices(t, map[string]string{
		"/eth/v1/beacon/genesis": testGenesis,
	})

	status, body := doRequest(t, newTestRouter(), "/epoch/5")
	require.Equal(t, http.StatusOK, status)

	links := regexp.MustCompile(`href="/slot/(\d+)"`).FindAllStringSubmatch(body, -1)
	require.Len(t, links, 32)
	assert.Equal(t, "191", links[0][1])
	assert.Equal(t, "160", links[31][1])
	for i, link := range links {
		slot, err := strconv.ParseUint(link[1], 10, 64)
		require.NoError(t, err)
		assert.Equal(t, uint64(191-i), slot)
	}

	// nothing resolved, the title stays the plain site name
	assert.Contains(t, body, "<title>Slotscope</title>")
	assert.Equal(t, 32, strings.Count(body, `text-dark">Unavailable</span>`))
}

func TestSlotPageAttestationTab(t *testing.T) {
	setupTestServices(t, map[string]string{
		"/eth/v1/beacon/genesis":    testGenesis,
		"/eth/v2/beacon/blocks/200": testSlotBlock,
		"/eth/v1/beacon/states/head/committees?epoch=6&slot=199&index=0": `{"data":[{"index":"0","slot":"199","validators":["5","9","12"]}]}`,
	})
	router := newTestRouter()

	status, body := doRequest(t, router, "/slot/200")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Attestations (3)")
	assert.Contains(t, body, "<title>Slot #200 | Slotscope</title>")

	// committees resolve in background, the tab shows them once loaded
	require.Eventually(t, func() bool {
		status, body := doRequest(t, router, "/slot/200/attestations")
		return status == http.StatusOK && strings.Contains(body, `href="/validator/12"`)
	}, 2*time.Second, 20*time.Millisecond)

	_, body = doRequest(t, router, "/slot/200/attestations")
	assert.Equal(t, 3, strings.Count(body, "attestation-row"))
}

func TestSlotPageSubPaths(t *testing.T) {
	setupTestServices(t, map[string]string{
		"/eth/v1/beacon/genesis":    testGenesis,
		"/eth/v2/beacon/blocks/200": testSlotBlock,
	})
	router := newTestRouter()

	tests := []struct {
		path         string
		attestations bool
	}{
		{path: "/slot/200/foo", attestations: false},
		{path: "/slot/200/overview/extra", attestations: false},
		{path: "/slot/200/attestations/x", attestations: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := doRequest(t, router, tt.path)
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "<title>Slot #200 | Slotscope</title>")
			assert.Equal(t, tt.attestations, strings.Contains(body, "attestation-row"))
		})
	}
}

func TestEpochAndSlotNavigationBounds(t *testing.T) {
	setupTestServices(t, map[string]string{
		"/eth/v1/beacon/genesis": testGenesis,
	})
	router := newTestRouter()

	// last epoch whose slots fit into uint64 for 32 slots per epoch
	status, body := doRequest(t, router, "/epoch/576460752303423487")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/slot/18446744073709551615"`)
	assert.Contains(t, body, `href="/slot/18446744073709551584"`)
	assert.Contains(t, body, `href="/epoch/576460752303423486"`)
	assert.NotContains(t, body, `href="/epoch/576460752303423488"`)
	assert.NotContains(t, body, `href="/epoch/0"`)

	status, body = doRequest(t, router, "/slot/18446744073709551615")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/slot/18446744073709551614"`)
	assert.NotContains(t, body, `href="/slot/0"`)
}

func TestSlotPageUnconfigured(t *testing.T) {
	utils.Config = &types.Config{}
	utils.Config.Frontend.SiteName = "Slotscope"
	services.GlobalBeaconService = services.NewBeaconService(nil, nil, utils.ChainSpec{SlotsPerEpoch: 32, SecondsPerSlot: 12})
	services.GlobalFrontendCache = services.NewFrontendCache(nil, 5*time.Second, true)
	t.Cleanup(func() {
		services.GlobalBeaconService = nil
		services.GlobalFrontendCache = nil
	})

	status, body := doRequest(t, newTestRouter(), "/slot/200")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Unconfigured")
	assert.NotContains(t, body, "Attestations (")
}
