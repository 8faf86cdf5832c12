package repositories

import "tunestream/internal/models"

// SongRepository defines the interface for catalog data access.
type SongRepository interface {
	GetAll() ([]models.Song, error)
	GetByID(id uint) (*models.Song, error)
	Count() (int64, error)
	CreateBatch(songs []models.Song) error
}
