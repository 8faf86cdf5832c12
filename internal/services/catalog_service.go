package services

import (
	"tunestream/internal/models"
	"tunestream/internal/repositories"
)

// CatalogService handles the read-only song catalog.
type CatalogService struct {
	repo repositories.SongRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.SongRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListSongs retrieves every song in the catalog.
func (s *CatalogService) ListSongs() ([]models.Song, error) {
	return s.repo.GetAll()
}

// SeedSongs inserts the given songs only when the catalog is empty, so
// restarting the server never duplicates the sample data.
func (s *CatalogService) SeedSongs(songs []models.Song) error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.repo.CreateBatch(songs)
}
