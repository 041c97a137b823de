package utils

import (
	"bytes"
	"encoding/json"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
	logger "github.com/sirupsen/logrus"
)

// GetTemplateFuncs will get the template functions
func GetTemplateFuncs() template.FuncMap {
	fm := template.FuncMap{}

	for k, v := range sprig.FuncMap() {
		fm[k] = v
	}

	customFuncs := template.FuncMap{
		"includeJSON":           IncludeJSON,
		"html":                  func(x string) template.HTML { return template.HTML(x) },
		"addUI64":               func(i, j uint64) uint64 { return i + j },
		"subUI64":               func(i, j uint64) uint64 { return i - j },
		"uint64ToTime":          func(i uint64) time.Time { return time.Unix(int64(i), 0).UTC() },
		"formatAddCommas":       FormatAddCommas,
		"formatNumber":          FormatNumber,
		"formatFloat":           FormatFloat,
		"formatBaseFee":         FormatBaseFee,
		"formatAmount":          FormatAmount,
		"formatEthFromGwei":     FormatETHFromGwei,
		"formatHexBytes":        FormatHexBytes,
		"formatHashShort":       FormatHashShort,
		"formatBitlist":         FormatBitlist,
		"formatBitvector":       FormatBitvector,
		"formatParticipation":   FormatParticipation,
		"formatRecentTimeShort": FormatRecentTimeShort,
		"formatGraffiti":        FormatGraffiti,
		"formatValidator":       FormatValidator,
		"ethAddressLink":        FormatEthAddressLink,
		"ethBlockLink":          FormatEthBlockLink,
		"slotLink":              FormatSlotLink,
		"epochLink":             FormatEpochLink,
	}

	for k, v := range customFuncs {
		fm[k] = v
	}

	return fm
}

// IncludeJSON adds json to the page
func IncludeJSON(obj any, escapeHTML bool) template.HTML {
	b, err := json.Marshal(obj)
	if err != nil {
		logger.Printf("includeJSON - error marshalling json: %v", err)
		return ""
	}

	s := string(b)
	if escapeHTML {
		s = html.EscapeString(s)
	}
	return template.HTML(s)
}

func GraffitiToString(graffiti []byte) string {
	s := strings.Map(fixUtf, string(bytes.Trim(graffiti, "\x00")))
	s = strings.Replace(s, "\u0000", "", -1)

	if !utf8.ValidString(s) {
		return "INVALID_UTF8_STRING"
	}

	return s
}

func fixUtf(r rune) rune {
	if r == utf8.RuneError {
		return -1
	}
	return r
}
