package repositories

import (
	"errors"
	"fmt"

	"tunestream/internal/models"

	"gorm.io/gorm"
)

// GORMSongRepository is a GORM implementation of SongRepository.
type GORMSongRepository struct {
	db *gorm.DB
}

// NewGORMSongRepository creates a new instance of GORMSongRepository.
func NewGORMSongRepository(db *gorm.DB) *GORMSongRepository {
	return &GORMSongRepository{
		db: db,
	}
}

// GetAll retrieves every song in the catalog.
func (r *GORMSongRepository) GetAll() ([]models.Song, error) {
	songs := make([]models.Song, 0)
	if err := r.db.Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all songs: %w", err)
	}
	return songs, nil
}

// GetByID retrieves a single song by its ID.
func (r *GORMSongRepository) GetByID(id uint) (*models.Song, error) {
	var song models.Song
	if err := r.db.First(&song, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("song with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get song by ID %d: %w", id, err)
	}
	return &song, nil
}

// Count returns the number of songs in the catalog.
func (r *GORMSongRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Song{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// CreateBatch inserts the given songs in a single statement. Used by
// catalog seeding only.
func (r *GORMSongRepository) CreateBatch(songs []models.Song) error {
	if len(songs) == 0 {
		return nil
	}
	if err := r.db.Create(&songs).Error; err != nil {
		return fmt.Errorf("failed to create songs: %w", err)
	}
	return nil
}
