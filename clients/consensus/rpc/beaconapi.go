package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"sync"
	"time"

	eth2client "github.com/attestantio/go-eth2-client"
	"github.com/attestantio/go-eth2-client/api"
	"github.com/attestantio/go-eth2-client/http"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/utils"
)

var logger = logrus.StandardLogger().WithField("module", "rpc")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

type BeaconClient struct {
	name       string
	endpoint   string
	headers    map[string]string
	httpClient *nethttp.Client
	svcMutex   sync.Mutex
	clientSvc  eth2client.Service
}

// NewBeaconClient is used to create a new beacon client
func NewBeaconClient(name, endpoint string, headers map[string]string, timeout time.Duration) *BeaconClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BeaconClient{
		name:       name,
		endpoint:   strings.TrimRight(endpoint, "/"),
		headers:    headers,
		httpClient: &nethttp.Client{Timeout: timeout},
	}
}

func (bc *BeaconClient) GetName() string {
	return bc.name
}

func (bc *BeaconClient) GetEndpoint() string {
	return bc.endpoint
}

// GenesisURL returns the url of the genesis endpoint
func (bc *BeaconClient) GenesisURL() string {
	return fmt.Sprintf("%s/eth/v1/beacon/genesis", bc.endpoint)
}

// BlockURL returns the url of the v2 block endpoint for a slot
func (bc *BeaconClient) BlockURL(slot uint64) string {
	return fmt.Sprintf("%s/eth/v2/beacon/blocks/%d", bc.endpoint, slot)
}

// BlockRootURL returns the url of the block root endpoint for a slot
func (bc *BeaconClient) BlockRootURL(slot uint64) string {
	return fmt.Sprintf("%s/eth/v1/beacon/blocks/%d/root", bc.endpoint, slot)
}

// ValidatorURL returns the url of the head state validator endpoint for a validator index
func (bc *BeaconClient) ValidatorURL(index uint64) string {
	return fmt.Sprintf("%s/eth/v1/beacon/states/head/validators/%d", bc.endpoint, index)
}

// CommitteeURL returns the url of the head state committee endpoint filtered by epoch, slot & committee index
func (bc *BeaconClient) CommitteeURL(epoch uint64, slot uint64, committeeIndex uint64) string {
	return fmt.Sprintf("%s/eth/v1/beacon/states/head/committees?epoch=%d&slot=%d&index=%d", bc.endpoint, epoch, slot, committeeIndex)
}

// FetchJSON issues a GET request and returns the response body if it is a successful json response.
func (bc *BeaconClient) FetchJSON(ctx context.Context, requrl string) ([]byte, error) {
	logurl := utils.GetRedactedUrl(requrl)

	req, err := nethttp.NewRequestWithContext(ctx, "GET", requrl, nethttp.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	for headerKey, headerVal := range bc.headers {
		req.Header.Set(headerKey, headerVal)
	}

	resp, err := bc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == nethttp.StatusNotFound {
			return nil, ErrNotFound
		}

		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.WithField("client", bc.name).Debugf("RPC Error %v: %v", resp.StatusCode, string(data))

		return nil, fmt.Errorf("url: %v, status: %v, error-response: %s", logurl, resp.StatusCode, data)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("error parsing json response: url: %v", logurl)
	}

	return body, nil
}

// NodeStatus is the result of a connection check
type NodeStatus struct {
	Version     string
	GenesisTime time.Time
}

func (bc *BeaconClient) initializeService(ctx context.Context) error {
	bc.svcMutex.Lock()
	defer bc.svcMutex.Unlock()

	if bc.clientSvc != nil {
		return nil
	}

	cliParams := []http.Parameter{
		http.WithAddress(bc.endpoint),
		http.WithTimeout(bc.httpClient.Timeout),
		http.WithLogLevel(zerolog.Disabled),
		http.WithCustomSpecSupport(true),
	}

	if len(bc.headers) > 0 {
		cliParams = append(cliParams, http.WithExtraHeaders(bc.headers))
	}

	clientSvc, err := http.New(ctx, cliParams...)
	if err != nil {
		return err
	}

	bc.clientSvc = clientSvc
	return nil
}

// CheckConnection queries node version & genesis through the typed beacon client.
func (bc *BeaconClient) CheckConnection(ctx context.Context) (*NodeStatus, error) {
	err := bc.initializeService(ctx)
	if err != nil {
		return nil, fmt.Errorf("error connecting to beacon node: %w", err)
	}

	status := &NodeStatus{}

	if provider, isProvider := bc.clientSvc.(eth2client.NodeVersionProvider); isProvider {
		result, err := provider.NodeVersion(ctx, &api.NodeVersionOpts{})
		if err != nil {
			return nil, fmt.Errorf("error retrieving node version: %w", err)
		}
		status.Version = result.Data
	}

	if provider, isProvider := bc.clientSvc.(eth2client.GenesisProvider); isProvider {
		result, err := provider.Genesis(ctx, &api.GenesisOpts{})
		if err != nil {
			return nil, fmt.Errorf("error retrieving genesis: %w", err)
		}
		status.GenesisTime = result.Data.GenesisTime
	}

	return status, nil
}
