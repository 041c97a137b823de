package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/slotscope/utils"
)

var logger_vn = logrus.StandardLogger().WithField("module", "validator_names")

// ValidatorNames resolves validator indexes to operator names from a yaml file and/or a ranges inventory api.
// Names are kept as index ranges, later sources override earlier ones.
type ValidatorNames struct {
	loadingMutex sync.Mutex
	loading      bool
	namesMutex   sync.RWMutex
	ranges       []validatorNameRange
}

type validatorNameRange struct {
	from uint64
	to   uint64 // inclusive
	name string
	seq  int
}

var GlobalValidatorNames = &ValidatorNames{}

func (vn *ValidatorNames) GetValidatorName(index uint64) string {
	vn.namesMutex.RLock()
	defer vn.namesMutex.RUnlock()

	// ranges are sorted by start index, the latest loaded matching range wins
	name := ""
	bestSeq := -1
	end := sort.Search(len(vn.ranges), func(i int) bool { return vn.ranges[i].from > index })
	for i := 0; i < end; i++ {
		r := vn.ranges[i]
		if index <= r.to && r.seq > bestSeq {
			name = r.name
			bestSeq = r.seq
		}
	}
	return name
}

// LoadValidatorNames starts loading the configured name sources in background
func (vn *ValidatorNames) LoadValidatorNames(ctx context.Context) {
	vn.loadingMutex.Lock()
	defer vn.loadingMutex.Unlock()
	if vn.loading {
		return
	}
	vn.loading = true

	go func() {
		defer utils.HandleSubroutinePanic("validator names loader")
		defer func() {
			vn.loadingMutex.Lock()
			vn.loading = false
			vn.loadingMutex.Unlock()
		}()

		ranges := []validatorNameRange{}

		if utils.Config.Frontend.ValidatorNamesYaml != "" {
			yamlRanges, err := loadValidatorNamesYaml(utils.Config.Frontend.ValidatorNamesYaml)
			if err != nil {
				logger_vn.WithError(err).Errorf("error while loading validator names from yaml")
			} else {
				ranges = append(ranges, yamlRanges...)
			}
		}
		if utils.Config.Frontend.ValidatorNamesInventory != "" {
			apiRanges, err := loadValidatorNamesInventory(ctx, utils.Config.Frontend.ValidatorNamesInventory)
			if err != nil {
				logger_vn.WithError(err).Errorf("error while loading validator names inventory")
			} else {
				ranges = append(ranges, apiRanges...)
			}
		}

		vn.setRanges(ranges)
	}()
}

func (vn *ValidatorNames) setRanges(ranges []validatorNameRange) {
	for i := range ranges {
		ranges[i].seq = i
	}
	sort.SliceStable(ranges, func(a, b int) bool {
		return ranges[a].from < ranges[b].from
	})

	vn.namesMutex.Lock()
	vn.ranges = ranges
	vn.namesMutex.Unlock()
}

// parseValidatorNameRanges parses "index" or "from-to" keys
func parseValidatorNameRanges(names map[string]string) []validatorNameRange {
	// sorted keys give stable override order within a source
	keys := make([]string, 0, len(names))
	for key := range names {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ranges := make([]validatorNameRange, 0, len(names))
	for _, key := range keys {
		fromStr, toStr, isRange := strings.Cut(key, "-")
		from, err := strconv.ParseUint(strings.TrimSpace(fromStr), 10, 64)
		if err != nil {
			continue
		}
		to := from
		if isRange {
			to, err = strconv.ParseUint(strings.TrimSpace(toStr), 10, 64)
			if err != nil || to < from {
				continue
			}
		}
		ranges = append(ranges, validatorNameRange{
			from: from,
			to:   to,
			name: names[key],
		})
	}
	return ranges
}

func loadValidatorNamesYaml(fileName string) ([]validatorNameRange, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening validator names file %v: %w", fileName, err)
	}
	defer f.Close()

	namesYaml := map[string]string{}
	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&namesYaml)
	if err != nil {
		return nil, fmt.Errorf("error decoding validator names file %v: %w", fileName, err)
	}

	ranges := parseValidatorNameRanges(namesYaml)
	logger_vn.Infof("loaded %v validator name ranges from yaml (%v)", len(ranges), fileName)
	return ranges, nil
}

type validatorNamesRangesResponse struct {
	Ranges map[string]string `json:"ranges"`
}

func loadValidatorNamesInventory(ctx context.Context, apiUrl string) ([]validatorNameRange, error) {
	logger_vn.Debugf("Loading validator names from inventory: %v", utils.GetRedactedUrl(apiUrl))

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch inventory (%v): %w", utils.GetRedactedUrl(apiUrl), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("url: %v, status: %v, error-response: %s", utils.GetRedactedUrl(apiUrl), resp.StatusCode, data)
	}

	rangesResponse := &validatorNamesRangesResponse{}
	err = json.NewDecoder(resp.Body).Decode(rangesResponse)
	if err != nil {
		return nil, fmt.Errorf("error parsing validator ranges response: %w", err)
	}

	ranges := parseValidatorNameRanges(rangesResponse.Ranges)
	logger_vn.Infof("loaded %v validator name ranges from inventory api (%v)", len(ranges), utils.GetRedactedUrl(apiUrl))
	return ranges, nil
}
