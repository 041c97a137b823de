package utils

import (
	"net/url"
)

// GetRedactedUrl returns the url with credentials masked, for logging
func GetRedactedUrl(requrl string) string {
	var logurl string

	urlData, _ := url.Parse(requrl)
	if urlData != nil {
		logurl = urlData.Redacted()
	} else {
		logurl = requrl
	}

	return logurl
}
