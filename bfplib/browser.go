package bfplib

import "strings"

// DetectBrowser classifies a raw user agent string into a browser
// label. Order matters: Chrome and Safari tokens co-occur in most real
// user agents, and Edge/Opera ship a Chrome token too, so the more
// specific markers have to be checked first.
func DetectBrowser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edg/"):
		return "Edge"
	case strings.Contains(userAgent, "OPR/") || strings.Contains(userAgent, "Opera"):
		return "Opera"
	case strings.Contains(userAgent, "Chrome/") && !strings.Contains(userAgent, "Chromium"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox/"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari/") && !strings.Contains(userAgent, "Chrome/"):
		return "Safari"
	case strings.Contains(userAgent, "Chromium"):
		return "Chromium"
	}

	return "Other"
}
