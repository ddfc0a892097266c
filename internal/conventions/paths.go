package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default ytdlq data directory name (relative to home).
	DefaultDataDir = ".ytdlq"
	// DBFile is the task store database filename.
	DBFile = "ytdlq.db"
	// SettingsFile is the user settings filename.
	SettingsFile = "settings.yaml"
)

// DBPath returns the task store database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// SettingsPath returns the settings file path inside a data directory.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, SettingsFile)
}
