package internal

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidReference marks URLs that do not refer to a supported video.
var ErrInvalidReference = errors.New("invalid video reference")

// Reference is the canonical (ID, URL) pair for a video.
type Reference struct {
	ID  string
	URL string
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExpandShortURL converts a youtu.be short link to the full watch form.
// Other URLs are returned unchanged.
func ExpandShortURL(rawURL string) string {
	if !strings.Contains(rawURL, "youtu.be") {
		return rawURL
	}

	id := rawURL[strings.LastIndex(rawURL, "youtu.be/")+len("youtu.be/"):]
	// Drop any query string carried by the short link
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	return "https://www.youtube.com/watch?v=" + id
}

// CanonicalURL expands short links and strips any trailing &... query
// suffix, so two URLs naming the same video converge on the same form.
func CanonicalURL(rawURL string) string {
	expanded := ExpandShortURL(strings.TrimSpace(rawURL))
	if i := strings.IndexByte(expanded, '&'); i >= 0 {
		expanded = expanded[:i]
	}
	return strings.TrimSpace(expanded)
}

// NormalizeReference derives the canonical reference for a raw URL.
// URLs that are not watch URLs fail with ErrInvalidReference.
func NormalizeReference(rawURL string) (Reference, error) {
	canonical := CanonicalURL(rawURL)

	if !strings.Contains(canonical, "youtube.com/watch") {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidReference, rawURL)
	}

	u, err := url.Parse(canonical)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidReference, rawURL)
	}

	id := u.Query().Get("v")
	if id == "" || !videoIDPattern.MatchString(id) {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidReference, rawURL)
	}

	return Reference{ID: id, URL: canonical}, nil
}

// IsLikelyVideoURL reports whether a line from the input list looks like a
// YouTube video URL at all. Used to filter the input list up front.
func IsLikelyVideoURL(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com/watch") || strings.Contains(rawURL, "youtu.be")
}

// WatchURL builds the watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
