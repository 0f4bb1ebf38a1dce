// Package docuri converts between filesystem paths and the file:// URIs
// used as keys throughout the document store.
package docuri

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

const fileSchemePrefix = "file://"

// URI is a file:// URI naming a document, a build file, or a synthetic
// C-import translation result.
type URI string

// FromPath converts an absolute filesystem path to a URI.
func FromPath(p string) URI {
	slashed := filepath.ToSlash(p)
	if runtime.GOOS == "windows" {
		slashed = "/" + slashed
	}
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return URI(fileSchemePrefix + slashed)
}

// Filename converts the URI back to a filesystem path.
func (u URI) Filename() (string, error) {
	s := string(u)
	if !strings.HasPrefix(s, fileSchemePrefix) {
		return "", fmt.Errorf("only file:// URIs are supported, got %q", s)
	}
	s = s[len(fileSchemePrefix):]
	if runtime.GOOS == "windows" && strings.HasPrefix(s, "/") {
		s = s[1:]
	}
	unescaped, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("decoding uri %q: %w", u, err)
	}
	return filepath.FromSlash(unescaped), nil
}

// HasSuffix reports whether the URI's path ends with suffix.
func (u URI) HasSuffix(suffix string) bool {
	return strings.HasSuffix(string(u), suffix)
}

// Contains reports whether the URI's path contains substr.
func (u URI) Contains(substr string) bool {
	return strings.Contains(string(u), substr)
}

// Dir returns the URI of the directory containing u, i.e. u with its last
// path segment removed. It fails with ErrBadScheme if u has no path
// separator preceding the final segment (the owning URI is malformed).
func (u URI) Dir() (URI, error) {
	s := string(u)
	if !strings.HasPrefix(s, fileSchemePrefix) {
		return "", ErrBadScheme
	}
	p := s[len(fileSchemePrefix):]
	if !strings.HasPrefix(p, "/") {
		return "", ErrBadScheme
	}
	return URI(fileSchemePrefix + path.Dir(p)), nil
}

// Join resolves rel (a slash-separated relative path, possibly containing
// "." and ".." segments) against the directory URI u. It joins the path
// portion only and re-prepends the scheme: path.Join would otherwise
// Clean the "///" right after "file:" down to a single slash, corrupting
// the scheme.
func Join(dir URI, rel string) URI {
	s := string(dir)
	if !strings.HasPrefix(s, fileSchemePrefix) {
		return URI(path.Join(s, rel))
	}
	p := s[len(fileSchemePrefix):]
	return URI(fileSchemePrefix + path.Join(p, rel))
}

// ErrBadScheme is returned when a URI has no separator before the scheme
// body, so a relative import cannot be resolved against it.
var ErrBadScheme = fmt.Errorf("uriFromImportStr: UriBadScheme")
