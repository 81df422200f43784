package http

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL appends path to the base URL's own path and sets non-empty query parameters.
func BuildURL(baseURL, path string, queryParams map[string]string) (string, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("error parsing base URL: %w", err)
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/") + "/" + strings.TrimLeft(path, "/")

	q := url.Values{}
	for key, value := range queryParams {
		if value == "" {
			continue
		}
		q.Set(key, value)
	}
	parsedURL.RawQuery = q.Encode()

	return parsedURL.String(), nil
}
