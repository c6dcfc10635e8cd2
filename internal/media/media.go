// Package media turns stored media references (the audioPath of an
// affirmation, the imagePath of a category) into URLs a client can fetch.
//
// Three resolvers exist:
//   - Noop leaves URLs empty; clients use the stored path as-is.
//   - Static joins the path onto a public base URL (a CDN or static host).
//   - S3 presigns a time-limited GET for the object stored under the path.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Resolver maps a stored media path to a client-facing URL.
type Resolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}

// Noop resolves every path to "".
type Noop struct{}

func (Noop) Resolve(context.Context, string) (string, error) { return "", nil }

// Static resolves paths relative to a fixed base URL.
type Static struct {
	base string
}

// NewStatic validates baseURL and returns a Static resolver for it.
func NewStatic(baseURL string) (*Static, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("media: parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("media: base URL %q must be absolute", baseURL)
	}
	return &Static{base: u.String()}, nil
}

func (s *Static) Resolve(_ context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if isAbsoluteURL(path) {
		return path, nil
	}
	joined, err := url.JoinPath(s.base, strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("media: joining %q: %w", path, err)
	}
	return joined, nil
}

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// objectKey turns "/audio/x.mp3" into the bucket key "audio/x.mp3".
func objectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}
