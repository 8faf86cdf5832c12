package repositories

import (
	"fmt"
	"sync"

	"tunestream/internal/models"
)

// MockSongRepository is an in-memory implementation of SongRepository.
type MockSongRepository struct {
	songs  map[uint]models.Song
	nextID uint
	mu     sync.RWMutex
}

// NewMockSongRepository creates a new instance of MockSongRepository.
func NewMockSongRepository() *MockSongRepository {
	return &MockSongRepository{
		songs:  make(map[uint]models.Song),
		nextID: 1,
	}
}

// GetAll returns all songs.
func (r *MockSongRepository) GetAll() ([]models.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	songList := make([]models.Song, 0, len(r.songs))
	for _, s := range r.songs {
		songList = append(songList, s)
	}
	return songList, nil
}

// GetByID returns a song by its ID.
func (r *MockSongRepository) GetByID(id uint) (*models.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	song, ok := r.songs[id]
	if !ok {
		return nil, fmt.Errorf("song with ID %d: %w", id, ErrNotFound)
	}
	return &song, nil
}

// Count returns the number of stored songs.
func (r *MockSongRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.songs)), nil
}

// CreateBatch adds the given songs, assigning sequential IDs where unset.
func (r *MockSongRepository) CreateBatch(songs []models.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range songs {
		if songs[i].ID == 0 {
			songs[i].ID = r.nextID
		}
		if songs[i].ID >= r.nextID {
			r.nextID = songs[i].ID + 1
		}
		r.songs[songs[i].ID] = songs[i]
	}
	return nil
}
