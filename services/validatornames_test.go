package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidatorName(t *testing.T) {
	tests := []struct {
		name           string
		ranges         map[string]string
		index          uint64
		expectedResult string
	}{
		{
			name:           "returns empty when no names are loaded",
			ranges:         nil,
			index:          123,
			expectedResult: "",
		},
		{
			name:           "returns name of single index",
			ranges:         map[string]string{"123": "test-validator"},
			index:          123,
			expectedResult: "test-validator",
		},
		{
			name:           "returns name of range start",
			ranges:         map[string]string{"100-199": "lighthouse-geth-1"},
			index:          100,
			expectedResult: "lighthouse-geth-1",
		},
		{
			name:           "returns name of range end",
			ranges:         map[string]string{"100-199": "lighthouse-geth-1"},
			index:          199,
			expectedResult: "lighthouse-geth-1",
		},
		{
			name:           "returns empty after range end",
			ranges:         map[string]string{"100-199": "lighthouse-geth-1"},
			index:          200,
			expectedResult: "",
		},
		{
			name:           "skips invalid keys",
			ranges:         map[string]string{"abc": "broken", "10-5": "reversed", "7": "seven"},
			index:          7,
			expectedResult: "seven",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vn := &ValidatorNames{}
			vn.setRanges(parseValidatorNameRanges(tt.ranges))

			result := vn.GetValidatorName(tt.index)

			if result != tt.expectedResult {
				t.Errorf("GetValidatorName() = %q, want %q", result, tt.expectedResult)
			}
		})
	}
}

func TestValidatorNamesOverride(t *testing.T) {
	vn := &ValidatorNames{}
	ranges := parseValidatorNameRanges(map[string]string{"0-999": "pool"})
	ranges = append(ranges, parseValidatorNameRanges(map[string]string{"500": "solo"})...)
	vn.setRanges(ranges)

	assert.Equal(t, "pool", vn.GetValidatorName(499))
	assert.Equal(t, "solo", vn.GetValidatorName(500))
	assert.Equal(t, "pool", vn.GetValidatorName(501))
}

func TestValidatorNamesInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ranges":{"0-63":"prysm-geth-1","64-127":"teku-besu-1"}}`))
	}))
	defer srv.Close()

	ranges, err := loadValidatorNamesInventory(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	vn := &ValidatorNames{}
	vn.setRanges(ranges)
	assert.Equal(t, "teku-besu-1", vn.GetValidatorName(64))
}
