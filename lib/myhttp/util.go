package myhttp

import (
	"fmt"
	"net/http"
	"os"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GuessHostnameWithScheme is used when no http-request is at hand to derive the hostname from
func GuessHostnameWithScheme() string {
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if project != "" {
		return fmt.Sprintf("https://%s.appspot.com", project)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return fmt.Sprintf("http://localhost:%s", port)
}
