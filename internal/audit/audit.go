// Package audit records every external command the shell runs in a SQLite
// database, alongside its exit code and how long it took.
//
// The shell only writes to the store. Recent and Session are the read side
// for tooling that opens the same database file.
package audit

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Store struct {
	db *gorm.DB
}

type Record struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	SessionID  string `gorm:"index"`
	Command    string
	Directory  string
	ExitCode   sql.NullInt32
	DurationMs int64
}

// Open opens (creating if needed) the audit database at path and migrates
// its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening audit database %s: %w", path, err)
	}

	if path == MemoryPath {
		// Each pooled connection would otherwise see its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("error auto-migrating audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Start inserts a record for a command that is about to run.
func (s *Store) Start(sessionID, command, directory string) (*Record, error) {
	record := Record{
		SessionID: sessionID,
		Command:   command,
		Directory: directory,
	}

	if result := s.db.Create(&record); result.Error != nil {
		return nil, result.Error
	}

	return &record, nil
}

// Finish stores the outcome of a command started with Start.
func (s *Store) Finish(record *Record, exitCode int, elapsed time.Duration) (*Record, error) {
	record.ExitCode = sql.NullInt32{Int32: int32(exitCode), Valid: true}
	record.DurationMs = elapsed.Milliseconds()

	if result := s.db.Save(record); result.Error != nil {
		return nil, result.Error
	}

	return record, nil
}

// Recent returns up to limit of the newest records, oldest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	var records []Record
	result := s.db.Order("id desc").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(records)
	return records, nil
}

// Session returns every record of one shell session in the order they ran.
func (s *Store) Session(sessionID string) ([]Record, error) {
	var records []Record
	result := s.db.Where("session_id = ?", sessionID).Order("id asc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
