package approval

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// DeviceSummary renders a user agent as "Browser on OS" for approval records.
func DeviceSummary(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknownDevice
	}
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + platform)
}
