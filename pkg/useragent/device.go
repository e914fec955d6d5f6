package useragent

import (
	"net/http"
	"strings"
)

// ExtractDeviceInfo reduces a User-Agent header to a short
// "Browser on OS" label for session history display.
func ExtractDeviceInfo(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		return "Unknown Device"
	}

	browser := matchFirst(ua, []pattern{
		{"Edg/", "Edge"},
		{"OPR/", "Opera"},
		{"Chrome/", "Chrome"},
		{"Firefox/", "Firefox"},
		{"Safari/", "Safari"},
	}, "Unknown Browser")

	os := matchFirst(ua, []pattern{
		{"Windows NT", "Windows"},
		{"Android", "Android"},
		{"iPhone", "iOS"},
		{"iPad", "iPadOS"},
		{"Mac OS X", "macOS"},
		{"Linux", "Linux"},
	}, "Unknown OS")

	return browser + " on " + os
}

type pattern struct {
	needle string
	label  string
}

// Order matters: Chrome UAs contain "Safari/", Edge UAs contain "Chrome/".
func matchFirst(ua string, patterns []pattern, fallback string) string {
	for _, p := range patterns {
		if strings.Contains(ua, p.needle) {
			return p.label
		}
	}
	return fallback
}

// ExtractIPAddress resolves the client IP, honoring proxy headers.
func ExtractIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
