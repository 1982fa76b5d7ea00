package assets

import (
	"path/filepath"
	"strings"
)

// Resolver maps logical asset paths to concrete sources. Remote URLs and
// data URLs pass through untouched; everything else is a route-style path,
// joined under the asset root. A leading "/" marks the root itself, not the
// host filesystem, so "/apes/ape1.png" and "apes/ape1.png" are the same file.
type Resolver struct {
	Root string
}

// Resolve returns the concrete source for a logical path. The result is the
// cache key for both the decoded-image cache and the bounding-box cache, so
// two spellings of the same file resolve identically.
func (r Resolver) Resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "data:") {
		return path
	}
	return filepath.Join(r.Root, filepath.Clean("/"+path))
}

// IsRemote reports whether a resolved source must be fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// IsDataURL reports whether a resolved source is an inline data URL.
func IsDataURL(source string) bool {
	return strings.HasPrefix(source, "data:")
}
