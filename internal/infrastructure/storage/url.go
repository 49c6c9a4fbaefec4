// Package storage holds the filesystem object store and the URL scheme shared
// by every object store backend.
package storage

import (
	"net/url"
	"strings"
)

// ObjectsPrefix is the route under which stored objects are served.
const ObjectsPrefix = "/objects/"

// PublicURL builds {base}/objects/{bucket}/{key} with every path segment
// escaped.
func PublicURL(baseURL, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(baseURL, "/") + ObjectsPrefix + url.PathEscape(bucket) + "/" + strings.Join(parts, "/")
}

// KeyFromPath extracts the object key from a request path relative to
// ObjectsPrefix, i.e. "{bucket}/{key}". It reports false for other buckets and
// for keys trying to leave the bucket.
func KeyFromPath(rel, bucket string) (string, bool) {
	rel, err := url.PathUnescape(strings.TrimPrefix(rel, "/"))
	if err != nil {
		return "", false
	}
	b, key, ok := strings.Cut(rel, "/")
	if !ok || b != bucket || key == "" {
		return "", false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return key, true
}
