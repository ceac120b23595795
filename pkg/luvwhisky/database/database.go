package database

import (
	"strings"

	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the package-level database connection.
func Connect(path string) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}

// Open opens a SQLite database with foreign keys enforced and driver errors
// translated to gorm sentinel errors (gorm.ErrDuplicatedKey and friends).
func Open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(logging.GormWriter(), logger.Config{
			SlowThreshold:             logging.SlowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// DSN appends the connection options the store relies on to a database path.
func DSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
