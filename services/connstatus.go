package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/slotscope/utils"
)

var connLogger = logrus.StandardLogger().WithField("module", "connstatus")

// NodeConnection is the last check result of a configured node
type NodeConnection struct {
	Configured  bool
	Connected   bool
	Version     string
	Error       string
	LastChecked time.Time
}

type ConnectionStatus struct {
	Beacon    NodeConnection
	Execution NodeConnection
}

type ConnectionStatusService struct {
	beaconService    *BeaconService
	executionService *ExecutionService
	interval         time.Duration

	statusMutex sync.RWMutex
	status      ConnectionStatus
}

var GlobalConnectionStatus *ConnectionStatusService

// StartConnectionStatus starts the global connection check loop
func StartConnectionStatus(ctx context.Context, interval time.Duration) {
	if GlobalConnectionStatus != nil {
		return
	}

	GlobalConnectionStatus = NewConnectionStatusService(GlobalBeaconService, GlobalExecutionService, interval)
	go GlobalConnectionStatus.run(ctx)
}

func NewConnectionStatusService(beaconService *BeaconService, executionService *ExecutionService, interval time.Duration) *ConnectionStatusService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectionStatusService{
		beaconService:    beaconService,
		executionService: executionService,
		interval:         interval,
	}
}

func (cs *ConnectionStatusService) run(ctx context.Context) {
	defer utils.HandleSubroutinePanic("connection status loop")

	for {
		cs.Refresh(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(cs.interval):
		}
	}
}

// Refresh checks all configured nodes once
func (cs *ConnectionStatusService) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	status := ConnectionStatus{}

	if cs.beaconService != nil && cs.beaconService.IsConfigured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status.Beacon = cs.checkBeacon(ctx)
		}()
	}

	if cs.executionService != nil && cs.executionService.IsConfigured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status.Execution = cs.checkExecution(ctx)
		}()
	}

	wg.Wait()

	cs.statusMutex.Lock()
	cs.status = status
	cs.statusMutex.Unlock()
}

func (cs *ConnectionStatusService) checkBeacon(ctx context.Context) NodeConnection {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn := NodeConnection{
		Configured:  true,
		LastChecked: time.Now(),
	}

	nodeStatus, err := cs.beaconService.CheckConnection(ctx)
	if err != nil {
		connLogger.WithError(err).Warnf("beacon node unreachable")
		conn.Error = err.Error()
		return conn
	}

	conn.Connected = true
	if nodeStatus != nil {
		conn.Version = nodeStatus.Version
	}
	return conn
}

func (cs *ConnectionStatusService) checkExecution(ctx context.Context) NodeConnection {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn := NodeConnection{
		Configured:  true,
		LastChecked: time.Now(),
	}

	version, err := cs.executionService.CheckConnection(ctx)
	if err != nil {
		connLogger.WithError(err).Warnf("execution node unreachable")
		conn.Error = err.Error()
		return conn
	}

	conn.Connected = true
	conn.Version = version
	return conn
}

func (cs *ConnectionStatusService) GetStatus() ConnectionStatus {
	cs.statusMutex.RLock()
	defer cs.statusMutex.RUnlock()
	return cs.status
}
