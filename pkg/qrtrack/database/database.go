package database

import (
	"net/url"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the SQLite database at path. The returned handle is owned by
// the caller and shared by every component; close it with Close.
func Connect(path string) (*gorm.DB, error) {
	return Open(DSN(path))
}

// Open opens a raw sqlite DSN with the settings every component expects.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// DSN turns a file path into a sqlite URI with foreign keys, WAL and a busy
// timeout enabled.
func DSN(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "1")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	return "file:" + path + "?" + params.Encode()
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
