// Package sqlitestore is the embedded-database backend of the
// persistence gateway. It keeps the same full-rewrite semantics as the
// CSV backend so the two are interchangeable behind the Store interface.
package sqlitestore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarium/internal/entities"
)

type Store struct {
	db *gorm.DB
}

// New opens (creating if necessary) the sqlite database and migrates
// the entity tables.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Book{}, &entities.Member{}, &entities.Loan{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) LoadBooks() ([]entities.Book, error) {
	var books []entities.Book
	if err := s.db.Order("isbn").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	return books, nil
}

func (s *Store) SaveBooks(books []entities.Book) error {
	return replaceAll(s.db, books)
}

func (s *Store) LoadMembers() ([]entities.Member, error) {
	var members []entities.Member
	if err := s.db.Order("member_id").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return members, nil
}

func (s *Store) SaveMembers(members []entities.Member) error {
	return replaceAll(s.db, members)
}

func (s *Store) LoadLoans() ([]entities.Loan, error) {
	var loans []entities.Loan
	if err := s.db.Order("loan_id").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	return loans, nil
}

func (s *Store) SaveLoans(loans []entities.Loan) error {
	return replaceAll(s.db, loans)
}

// replaceAll rewrites a whole table inside one transaction, mirroring
// the CSV backend's whole-file rewrite.
func replaceAll[T any](db *gorm.DB, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var model T
		if err := tx.Where("1 = 1").Delete(&model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
