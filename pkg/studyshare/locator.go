package studyshare

import (
	"fmt"
	"strings"
)

// BuildLocator joins a backend base URL and an object key into the
// canonical locator form https://<bucket-host>/<key>.
func BuildLocator(baseURL, objectKey string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + objectKey
}

// KeyFromLocator recovers the object key from a stored locator by
// stripping the backend's base URL prefix. Path-style endpoints carry the
// bucket in the URL path, so stripping only the host would hand the
// backend a bucket-prefixed key it never stored; stripping the full base
// URL keeps both addressing styles round-tripping. A locator outside the
// backend's namespace, or with nothing after the prefix, yields
// ErrMalformedLocator.
func KeyFromLocator(baseURL, locator string) (string, error) {
	prefix := strings.TrimSuffix(baseURL, "/") + "/"
	key, ok := strings.CutPrefix(locator, prefix)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedLocator, locator)
	}
	return key, nil
}
