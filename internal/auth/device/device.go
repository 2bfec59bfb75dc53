// Package device derives a human-readable device description from a raw
// User-Agent string. Login activity entries carry the result so an auditor can
// tell which browser performed an action.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns "<browser> on <os>" when it can tell, otherwise a
// best effort, and "Unknown Device" for an empty string.
func ParseUserAgent(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "Unknown Device"
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
