package model

import (
	"regexp"
	"strings"
)

var (
	watchOrShortLinkRegexp = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)
	shortsRegexp           = regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]+)`)
)

// IsVideoURL returns true if the URL is a link the download service can handle.
func IsVideoURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

// ExtractVideoID returns the video ID of a watch, youtu.be or shorts link.
// The second return value is false when the URL has no recognizable ID.
func ExtractVideoID(url string) (string, bool) {
	if url == "" {
		return "", false
	}

	if m := watchOrShortLinkRegexp.FindStringSubmatch(url); m != nil {
		return m[1], true
	}

	if m := shortsRegexp.FindStringSubmatch(url); m != nil {
		return m[1], true
	}

	return "", false
}
