package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName  = "nutri"
	dbFileName  = "nutri.db"
	logDirName  = "logs"
	backupsName = "backups"
)

func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// LogDir keeps logs next to the database they describe.
func LogDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), logDirName)
}

func BackupDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), backupsName)
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
