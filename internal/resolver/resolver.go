// Package resolver turns raw user input (a bare video ID or any of the
// platform's URL shapes) into a canonical video identifier.
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/captionrelay/backend/internal/errors"
)

// videoIDRe matches platform video identifiers: at least 10 characters of
// letters, digits, hyphen, underscore.
var videoIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)

// pathPrefixes are the path-based URL shapes that carry the identifier as
// the segment immediately after the prefix.
var pathPrefixes = []string{"/shorts/", "/live/", "/embed/", "/v/"}

// Resolve parses input into a canonical video identifier. Accepted shapes:
// a bare identifier token, a youtu.be short link, a watch URL with a "v"
// query parameter, and shorts/live/embed paths. Anything else fails with an
// invalid-input error; no network access is involved.
func Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.InvalidInput("empty video URL or ID")
	}

	if videoIDRe.MatchString(input) {
		return input, nil
	}

	parsed, err := url.Parse(input)
	if err != nil || parsed.Host == "" {
		// Bare "youtube.com/..." without a scheme parses as a path.
		parsed, err = url.Parse("https://" + input)
		if err != nil {
			return "", apperrors.InvalidInput("could not parse video URL")
		}
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = firstPathSegment(parsed.Path)

	case "youtube.com", "music.youtube.com":
		id = extractFromCanonical(parsed)

	default:
		return "", apperrors.InvalidInput("not a recognized video URL")
	}

	if !videoIDRe.MatchString(id) {
		return "", apperrors.InvalidInput("could not extract a video ID from input")
	}
	return id, nil
}

func extractFromCanonical(parsed *url.URL) string {
	if strings.HasPrefix(parsed.Path, "/watch") {
		return parsed.Query().Get("v")
	}
	for _, prefix := range pathPrefixes {
		if strings.HasPrefix(parsed.Path, prefix) {
			return firstPathSegment(strings.TrimPrefix(parsed.Path, prefix))
		}
	}
	return ""
}

// firstPathSegment trims a leading slash and anything after the first
// remaining slash.
func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.Index(path, "/"); idx != -1 {
		path = path[:idx]
	}
	return path
}
