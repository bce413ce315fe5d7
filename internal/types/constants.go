package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// devOrigins covers the Vite dev server and a frontend served next to the
// API on its default port.
var devOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
}

// AllowedOrigins builds the CORS whitelist from the dev defaults plus
// CLIENT_URL and the comma-separated ALLOWED_ORIGINS. It reads the
// environment on every call so values loaded from a .env file are seen.
func AllowedOrigins() []string {
	origins := make([]string, len(devOrigins))
	copy(origins, devOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
