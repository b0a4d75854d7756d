package requestmeta

import (
	"strings"

	surfer "github.com/avct/uasurfer"
)

// DeviceClass classifies a raw user-agent header into the coarse label
// carried on the lead, such as "Desktop (Chrome)" or "Phone (Safari)".
// An empty or unrecognizable header yields "".
func DeviceClass(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	ua := surfer.Parse(raw)
	if ua.IsBot() {
		return "Bot"
	}

	var class string
	switch ua.DeviceType {
	case surfer.DeviceComputer:
		class = "Desktop"
	case surfer.DevicePhone:
		class = "Phone"
	case surfer.DeviceTablet:
		class = "Tablet"
	case surfer.DeviceTV:
		class = "TV"
	case surfer.DeviceConsole, surfer.DeviceWearable:
		class = "Other"
	default:
		return ""
	}

	// BrowserName strings carry a "Browser" prefix, e.g. "BrowserChrome".
	browser := strings.TrimPrefix(ua.Browser.Name.String(), "Browser")
	if browser != "" && browser != "Unknown" {
		return class + " (" + browser + ")"
	}
	return class
}
