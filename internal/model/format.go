package model

import "strings"

// Format is the download format label sent to the download service.
// The service matches the labels verbatim, any other value is a free form label.
type Format string

const (
	// FormatBest downloads best video and audio merged into mp4.
	FormatBest Format = "最佳质量"
	// FormatAudioMP3 downloads only the audio converted to mp3.
	FormatAudioMP3 Format = "仅音频 (MP3)"
	// Format1080p requests 1080p video.
	Format1080p Format = "1080p"
	// Format720p requests 720p video.
	Format720p Format = "720p"

	// DefaultFormat is the format used when none is requested.
	DefaultFormat = FormatBest
)

var formatAliases = map[string]Format{
	"best":  FormatBest,
	"mp3":   FormatAudioMP3,
	"audio": FormatAudioMP3,
	"1080p": Format1080p,
	"720p":  Format720p,
}

// ParseFormat resolves the user friendly aliases (best, mp3, 1080p, 720p) to the
// service labels. Unknown values are returned as they are.
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFormat
	}

	if f, ok := formatAliases[strings.ToLower(s)]; ok {
		return f
	}

	return Format(s)
}

// Alias returns the short name of a known format, or the label itself.
func (f Format) Alias() string {
	switch f {
	case FormatBest:
		return "best"
	case FormatAudioMP3:
		return "mp3"
	}
	return string(f)
}
