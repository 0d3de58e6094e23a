package database

import (
	"context"
	"fmt"

	"olif/internal/logger"
	"olif/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var log = logger.GetLogger()

// Store persists the restaurant catalog and checkout receipts
type Store struct {
	db *gorm.DB
}

// Open initializes the database connection and migrates the schema.
// driver is "sqlite3" or "postgres".
func Open(driver, url string) (*Store, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// every connection to :memory: is a separate database
		db.DB().SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the tables
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&models.RestaurantRecord{},
		&models.MenuItemRecord{},
		&models.Receipt{},
		&models.ReceiptLine{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Seed stores restaurants when the catalog tables are empty. It returns the
// number of restaurants written.
func (s *Store) Seed(ctx context.Context, restaurants []models.Restaurant) (int, error) {
	var count int
	if err := s.db.Model(&models.RestaurantRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx := s.db.Begin()
	for i, r := range restaurants {
		if err := ctx.Err(); err != nil {
			tx.Rollback()
			return 0, err
		}
		rec := models.NewRestaurantRecord(r, i)
		if err := tx.Create(&rec).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to seed restaurant %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	log.Infof("seeded %d restaurants", len(restaurants))
	return len(restaurants), nil
}

// ListRestaurants implements catalog.Source
func (s *Store) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var recs []models.RestaurantRecord
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("position asc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	out := make([]models.Restaurant, len(recs))
	for i := range recs {
		out[i] = recs[i].Restaurant()
	}
	return out, nil
}

// SaveReceipt stores a receipt with its lines
func (s *Store) SaveReceipt(ctx context.Context, r *models.Receipt) error {
	if r.ReceiptID == "" {
		return fmt.Errorf("receipt id is required")
	}
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", r.ReceiptID, err)
	}
	return nil
}

// ListReceipts returns a session's receipts, newest first
func (s *Store) ListReceipts(ctx context.Context, sessionID string) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := s.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("session_id = ?", sessionID).
		Order("placed_at desc").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
