// AngelaMos | 2026
// device.go

package auth

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// DeviceLabel condenses a raw User-Agent into the short form shown in
// session listings, e.g. "Chrome on Mac OS X".
func DeviceLabel(rawUserAgent string) string {
	if strings.TrimSpace(rawUserAgent) == "" {
		return unknownDevice
	}

	parsed := useragent.New(rawUserAgent)

	browser, _ := parsed.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	osName := parsed.OSInfo().Name
	if osName == "" {
		osName = parsed.Platform()
	}
	if osName == "" {
		osName = "Unknown OS"
	}

	return browser + " on " + osName
}
