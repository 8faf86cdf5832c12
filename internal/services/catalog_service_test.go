package services_test

import (
	"testing"

	"tunestream/internal/models"
	"tunestream/internal/repositories"
	"tunestream/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCatalogService_SeedSongsOnlyWhenEmpty(t *testing.T) {
	repo := repositories.NewMockSongRepository()
	service := services.NewCatalogService(repo)

	seed := []models.Song{
		{Title: "Mountain Echo", Artist: "The Helix"},
		{Title: "Valley Breeze", Artist: "Lunar Drift"},
	}

	assert.NoError(t, service.SeedSongs(seed))
	songs, err := service.ListSongs()
	assert.NoError(t, err)
	assert.Len(t, songs, 2)

	// A second seed is a no-op, so restarts never duplicate the catalog.
	assert.NoError(t, service.SeedSongs(seed))
	songs, err = service.ListSongs()
	assert.NoError(t, err)
	assert.Len(t, songs, 2)
}
