package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRemoteCache struct {
	mutex  sync.Mutex
	values map[string][]byte
	gets   int
}

func (m *memoryRemoteCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryRemoteCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.gets++
	value, ok := m.values[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return value, nil
}

func TestTieredCacheLocalRoundtrip(t *testing.T) {
	tc := NewTieredCacheWithRemote(1, nil)

	require.NoError(t, tc.Set("genesis", json.RawMessage(`{"data":{"genesis_time":"1606824023"}}`), 0))

	var raw json.RawMessage
	_, err := tc.Get("genesis", &raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"genesis_time":"1606824023"}}`, string(raw))
}

func TestTieredCacheMiss(t *testing.T) {
	tc := NewTieredCacheWithRemote(1, nil)

	var raw json.RawMessage
	_, err := tc.Get("unknown", &raw)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestTieredCacheRemoteFallback(t *testing.T) {
	remote := &memoryRemoteCache{values: map[string][]byte{}}
	writer := NewTieredCacheWithRemote(1, remote)
	require.NoError(t, writer.Set("slot:1", map[string]uint64{"slot": 1}, 0))

	// a second instance only shares the remote layer
	reader := NewTieredCacheWithRemote(1, remote)
	value := map[string]uint64{}
	_, err := reader.Get("slot:1", &value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), value["slot"])

	// the value is now served locally
	_, err = reader.Get("slot:1", &value)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.gets)
}
