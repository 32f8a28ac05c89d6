// Package dbstore implements the ISF Store interface over a GORM/SQLite
// database, a drop-in alternative to the flat-file store for devices
// that provision their configuration through a management tool rather
// than a flashed binary blob.
package dbstore

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Config holds the database connection settings.
type Config struct {
	Path      string
	CacheSize uint32
	Debug     bool
}

// DB wraps the GORM handle and exposes the migrated ISF tables.
type DB struct {
	gormDB *gorm.DB
}

// Open connects to (and migrates) the SQLite-backed ISF database using
// the pure-Go driver, keeping the kernel cgo-free end to end.
func Open(cfg Config, logOut *log.Logger) (*DB, error) {
	var gormLog logger.Interface
	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	if logOut != nil {
		gormLog = logger.New(logOut, logger.Config{
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        cfg.Path,
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("dbstore: open %s: %w", cfg.Path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("dbstore: underlying handle: %w", err)
	}
	if err := configureSQLite(sqlDB, cfg.CacheSize); err != nil {
		return nil, fmt.Errorf("dbstore: pragma setup: %w", err)
	}

	if err := gdb.AutoMigrate(
		&NetworkSettingsRecord{},
		&ScanEntryRecord{},
		&BeaconEntryRecord{},
		&ScheduleEntryRecord{},
	); err != nil {
		return nil, fmt.Errorf("dbstore: automigrate: %w", err)
	}

	if logOut != nil {
		logOut.Printf("dbstore: ISF database ready at %s", cfg.Path)
	}

	return &DB{gormDB: gdb}, nil
}

func configureSQLite(sqlDB *sql.DB, cacheSize uint32) error {
	if cacheSize == 0 {
		cacheSize = 256
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		fmt.Sprintf("PRAGMA cache_size=%d", cacheSize),
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SizeSummary returns a human-readable size of the backing database
// file, for startup diagnostic logging.
func (db *DB) SizeSummary(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}
